package cvforge

import (
	"fmt"
	"slices"
	"sync"
)

// Update is a partial change to a Document. Nil fields are left alone; a
// non-nil slice pointer replaces the whole section. Personal replaces the
// header but keeps the current photo when Personal.Photo is empty; set
// Photo to change or clear it.
type Update struct {
	Personal    *PersonalInfo
	Photo       *string
	Experiences *[]Experience
	Education   *[]Education
	Skills      *[]Skill
	Languages   *[]Language
}

// Editor owns the current Document. Apply is the only way to change it;
// every successful Apply swaps in a fresh copy and calls the change
// listeners. An Editor is safe for concurrent use.
type Editor struct {
	mu        sync.RWMutex
	doc       Document
	listeners []func(Document)
}

// NewEditor returns an editor holding a copy of doc with missing IDs filled.
func NewEditor(doc Document) (*Editor, error) {
	doc = doc.Clone()
	doc.normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &Editor{doc: doc}, nil
}

// Document returns a copy of the current document.
func (e *Editor) Document() Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Clone()
}

// OnChange registers fn to be called with each new document, after the
// editor's lock is released.
func (e *Editor) OnChange(fn func(Document)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Apply merges u into a copy of the current document, validates it and
// makes it current. On error the current document is unchanged.
func (e *Editor) Apply(u Update) (Document, error) {
	return e.update(func(Document) (Update, error) { return u, nil })
}

// update builds an Update from the current document and applies it under
// one lock, so read-modify-write commands cannot interleave.
func (e *Editor) update(build func(current Document) (Update, error)) (Document, error) {
	e.mu.Lock()

	u, err := build(e.doc.Clone())
	if err != nil {
		e.mu.Unlock()
		return Document{}, err
	}

	next := merge(e.doc, u)
	if err := next.Validate(); err != nil {
		e.mu.Unlock()
		return Document{}, err
	}

	e.doc = next
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(next.Clone())
	}
	return next.Clone(), nil
}

func merge(doc Document, u Update) Document {
	next := doc.Clone()
	if u.Personal != nil {
		photo := next.Personal.Photo
		next.Personal = *u.Personal
		if u.Personal.Photo == "" {
			next.Personal.Photo = photo
		}
	}
	if u.Photo != nil {
		next.Personal.Photo = *u.Photo
	}
	if u.Experiences != nil {
		next.Experiences = slices.Clone(*u.Experiences)
	}
	if u.Education != nil {
		next.Education = slices.Clone(*u.Education)
	}
	if u.Skills != nil {
		next.Skills = slices.Clone(*u.Skills)
	}
	if u.Languages != nil {
		next.Languages = slices.Clone(*u.Languages)
	}
	next.normalize()
	return next
}

// SetAvatar stores uri as the profile photo. An empty uri removes it.
func (e *Editor) SetAvatar(uri string) (Document, error) {
	return e.Apply(Update{Photo: &uri})
}

// AddExperience appends exp, assigning an ID when it has none.
func (e *Editor) AddExperience(exp Experience) (Experience, error) {
	if exp.ID == "" {
		exp.ID = newID()
	}
	_, err := e.update(func(cur Document) (Update, error) {
		list := append(cur.Experiences, exp)
		return Update{Experiences: &list}, nil
	})
	if err != nil {
		return Experience{}, err
	}
	return exp, nil
}

// RemoveExperience deletes the experience with the given ID.
func (e *Editor) RemoveExperience(id string) error {
	_, err := e.update(func(cur Document) (Update, error) {
		list, err := without(cur.Experiences, id, func(x Experience) string { return x.ID })
		return Update{Experiences: &list}, err
	})
	return err
}

// AddEducation appends edu, assigning an ID when it has none.
func (e *Editor) AddEducation(edu Education) (Education, error) {
	if edu.ID == "" {
		edu.ID = newID()
	}
	_, err := e.update(func(cur Document) (Update, error) {
		list := append(cur.Education, edu)
		return Update{Education: &list}, nil
	})
	if err != nil {
		return Education{}, err
	}
	return edu, nil
}

// RemoveEducation deletes the education entry with the given ID.
func (e *Editor) RemoveEducation(id string) error {
	_, err := e.update(func(cur Document) (Update, error) {
		list, err := without(cur.Education, id, func(x Education) string { return x.ID })
		return Update{Education: &list}, err
	})
	return err
}

// AddSkill appends s, assigning an ID when it has none.
func (e *Editor) AddSkill(s Skill) (Skill, error) {
	if s.ID == "" {
		s.ID = newID()
	}
	_, err := e.update(func(cur Document) (Update, error) {
		list := append(cur.Skills, s)
		return Update{Skills: &list}, nil
	})
	if err != nil {
		return Skill{}, err
	}
	return s, nil
}

// RemoveSkill deletes the skill with the given ID.
func (e *Editor) RemoveSkill(id string) error {
	_, err := e.update(func(cur Document) (Update, error) {
		list, err := without(cur.Skills, id, func(x Skill) string { return x.ID })
		return Update{Skills: &list}, err
	})
	return err
}

// AddLanguage appends l, assigning an ID when it has none.
func (e *Editor) AddLanguage(l Language) (Language, error) {
	if l.ID == "" {
		l.ID = newID()
	}
	_, err := e.update(func(cur Document) (Update, error) {
		list := append(cur.Languages, l)
		return Update{Languages: &list}, nil
	})
	if err != nil {
		return Language{}, err
	}
	return l, nil
}

// RemoveLanguage deletes the language with the given ID.
func (e *Editor) RemoveLanguage(id string) error {
	_, err := e.update(func(cur Document) (Update, error) {
		list, err := without(cur.Languages, id, func(x Language) string { return x.ID })
		return Update{Languages: &list}, err
	})
	return err
}

func without[T any](list []T, id string, idOf func(T) string) ([]T, error) {
	i := slices.IndexFunc(list, func(x T) bool { return idOf(x) == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, id)
	}
	return slices.Delete(list, i, i+1), nil
}
