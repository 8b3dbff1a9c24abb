package models

type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// UserPatch carries the fields of a partial user update. Nil means "leave as is".
type UserPatch struct {
	Name  *string
	Email *string
}

// Apply copies the present fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

// UserShort is the compact user form embedded into booking views.
type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
