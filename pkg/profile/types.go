package profile

// Contact is the applicant's contact record as supplied by the caller.
type Contact struct {
	FullName          string `json:"full_name" yaml:"full_name" validate:"required,min=2"`
	Email             string `json:"email" yaml:"email" validate:"required,email"`
	Phone             string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location          string `json:"location" yaml:"location" validate:"required"`
	LinkedIn          string `json:"linkedin,omitempty" yaml:"linkedin,omitempty" validate:"omitempty,url"`
	Portfolio         string `json:"portfolio,omitempty" yaml:"portfolio,omitempty" validate:"omitempty,url"`
	ProfessionalTitle string `json:"professional_title" yaml:"professional_title"`
}

// HasLinks reports whether either profile link is set.
func (c Contact) HasLinks() (result bool) {
	result = c.LinkedIn != "" || c.Portfolio != ""
	return result
}
