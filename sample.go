package cvforge

// SampleDocument returns the starter resume written by "cvforge init".
// Each call returns fresh IDs.
func SampleDocument() Document {
	return Document{
		Personal: PersonalInfo{
			FirstName: "John",
			LastName:  "Doe",
			Title:     "Software Developer",
			Email:     "john.doe@example.com",
			Phone:     "+33 6 12 34 56 78",
			Location:  "Paris, France",
			Summary:   "Experienced software developer with a passion for creating elegant solutions to complex problems.",
		},
		Experiences: []Experience{
			{
				ID:          newID(),
				Company:     "Tech Solutions Inc.",
				Position:    "Senior Developer",
				StartDate:   "01/2020",
				EndDate:     "Present",
				Description: "Led development team in creating enterprise software solutions. Implemented CI/CD pipeline and reduced deployment time by 40%.",
				Current:     true,
			},
		},
		Education: []Education{
			{
				ID:          newID(),
				Institution: "University of Paris",
				Degree:      "Master's",
				Field:       "Computer Science",
				StartDate:   "09/2015",
				EndDate:     "06/2018",
				Description: "Graduated with honors. Specialized in machine learning and artificial intelligence.",
			},
		},
		Skills: []Skill{
			{ID: newID(), Name: "JavaScript", Level: 5},
			{ID: newID(), Name: "React", Level: 4},
			{ID: newID(), Name: "Node.js", Level: 4},
			{ID: newID(), Name: "Python", Level: 3},
		},
		Languages: []Language{
			{ID: newID(), Name: "French", Level: 5},
			{ID: newID(), Name: "English", Level: 4},
		},
	}
}
