package content

import (
	"errors"
	"fmt"
)

// Scalar field keys, in display order.
const (
	KeyHeroTitle        = "hero_title"
	KeyHeroSubtitle     = "hero_subtitle"
	KeyHeroDescription  = "hero_description"
	KeyAboutTitle       = "about_title"
	KeyAboutDescription = "about_description"
)

// FieldKeys lists every editable scalar field in display order.
var FieldKeys = []string{
	KeyHeroTitle,
	KeyHeroSubtitle,
	KeyHeroDescription,
	KeyAboutTitle,
	KeyAboutDescription,
}

// Service is one entry of the services list. Position in the list is
// display order.
type Service struct {
	Name        string `json:"name" bson:"name" yaml:"name" toml:"name"`
	Description string `json:"description" bson:"description" yaml:"description" toml:"description"`
}

// Document is the single editable site content document.
type Document struct {
	HeroTitle        string    `json:"hero_title" bson:"hero_title" yaml:"hero_title" toml:"hero_title"`
	HeroSubtitle     string    `json:"hero_subtitle" bson:"hero_subtitle" yaml:"hero_subtitle" toml:"hero_subtitle"`
	HeroDescription  string    `json:"hero_description" bson:"hero_description" yaml:"hero_description" toml:"hero_description"`
	AboutTitle       string    `json:"about_title" bson:"about_title" yaml:"about_title" toml:"about_title"`
	AboutDescription string    `json:"about_description" bson:"about_description" yaml:"about_description" toml:"about_description"`
	Services         []Service `json:"services" bson:"services" yaml:"services" toml:"services"`
}

// ErrUnknownKey matches every *UnknownKeyError under errors.Is.
var ErrUnknownKey = errors.New("unknown content key")

// UnknownKeyError reports a scalar key outside FieldKeys.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown content key %q", e.Key)
}

func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}

// IsFieldKey reports whether key names a scalar field.
func IsFieldKey(key string) bool {
	for _, k := range FieldKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy; the services slice is never shared.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Services = CloneServices(d.Services)
	return &cp
}

// CloneServices copies a services list. A nil list becomes an empty one so
// encoded documents always carry "services": [].
func CloneServices(in []Service) []Service {
	out := make([]Service, len(in))
	copy(out, in)
	return out
}

// Field returns the value of a scalar field.
func (d *Document) Field(key string) (string, error) {
	switch key {
	case KeyHeroTitle:
		return d.HeroTitle, nil
	case KeyHeroSubtitle:
		return d.HeroSubtitle, nil
	case KeyHeroDescription:
		return d.HeroDescription, nil
	case KeyAboutTitle:
		return d.AboutTitle, nil
	case KeyAboutDescription:
		return d.AboutDescription, nil
	}
	return "", &UnknownKeyError{Key: key}
}

// SetField assigns a scalar field.
func (d *Document) SetField(key, value string) error {
	switch key {
	case KeyHeroTitle:
		d.HeroTitle = value
	case KeyHeroSubtitle:
		d.HeroSubtitle = value
	case KeyHeroDescription:
		d.HeroDescription = value
	case KeyAboutTitle:
		d.AboutTitle = value
	case KeyAboutDescription:
		d.AboutDescription = value
	default:
		return &UnknownKeyError{Key: key}
	}
	return nil
}

// Fields returns the scalar fields keyed by name.
func (d *Document) Fields() map[string]string {
	out := make(map[string]string, len(FieldKeys))
	for _, k := range FieldKeys {
		v, _ := d.Field(k)
		out[k] = v
	}
	return out
}
