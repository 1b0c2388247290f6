package profiles

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/text/unicode/norm"
)

// SelectionSeparator joins the options of a multi-select field into stored text.
const SelectionSeparator = ", "

// Candidate is a profile assembled from user input that has not been persisted yet.
// Multi-select fields hold their already joined text and ProfilePicture holds the
// uploaded file name, or nil when no picture was supplied.
type Candidate struct {
	FullName       string  `mapstructure:"full_name" validate:"required,max=50"`
	Username       string  `mapstructure:"username" validate:"required,max=30"`
	ProfilePicture *string `mapstructure:"profile_picture"`
	Location       string  `mapstructure:"location" validate:"max=100"`
	Email          string  `mapstructure:"email" validate:"required,max=100"`
	Phone          string  `mapstructure:"phone" validate:"max=20"`

	Specialization  string `mapstructure:"specialization"`
	Skills          string `mapstructure:"skills"`
	ExperienceLevel string `mapstructure:"experience_level" validate:"omitempty,experience_level"`
	LanguagesSpoken string `mapstructure:"languages_spoken" validate:"max=100"`

	PortfolioLinks string `mapstructure:"portfolio_links"`
	PastProjects   string `mapstructure:"past_projects"`

	CameraEquipment   string `mapstructure:"camera_equipment"`
	AudioEquipment    string `mapstructure:"audio_equipment"`
	LightingEquipment string `mapstructure:"lighting_equipment"`
	EditingSoftware   string `mapstructure:"editing_software" validate:"max=100"`

	PreferredProjectTypes string `mapstructure:"preferred_project_types"`
	PreferredIndustries   string `mapstructure:"preferred_industries"`
	AvailabilityStatus    string `mapstructure:"availability_status"`
	Compensation          string `mapstructure:"compensation"`

	SocialMediaLinks string `mapstructure:"social_media_links"`
	FollowerCount    string `mapstructure:"follower_count" validate:"max=20"`

	PrivacySettings         string `mapstructure:"privacy_settings" validate:"omitempty,privacy_setting"`
	NotificationPreferences string `mapstructure:"notification_preferences"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		return name
	})
	choices := map[string][]string{
		"experience_level": ExperienceLevels,
		"privacy_setting":  PrivacySettings,
	}
	for tag, options := range choices {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return slices.Contains(options, fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("profiles: register %s validation: %v", tag, err))
		}
	}
	return v
}

// JoinSelections flattens a multi-select value into stored text, keeping the
// order in which the options were selected.
func JoinSelections(selected []string) string {
	return strings.Join(selected, SelectionSeparator)
}

// DecodeCandidate builds a Candidate from a key-to-value mapping keyed by column
// name. List values are joined with JoinSelections and scalar values are
// converted to text. Unknown keys, including id, are rejected.
func DecodeCandidate(values map[string]any) (Candidate, error) {
	var candidate Candidate

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       joinSelectionsHook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &candidate,
	})
	if err != nil {
		return Candidate{}, err
	}

	if err := decoder.Decode(values); err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	}
	return candidate, nil
}

func joinSelectionsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}

	switch v := data.(type) {
	case []string:
		return JoinSelections(v), nil
	case []any:
		selected := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("selection %v is not text", item)
			}
			selected = append(selected, s)
		}
		return JoinSelections(selected), nil
	}
	return data, nil
}

// Normalize trims single-line inputs, normalizes the username to NFC so that
// visually identical names collide, and turns an empty picture name into nil.
func (c Candidate) Normalize() Candidate {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Username = norm.NFC.String(strings.TrimSpace(c.Username))
	c.Location = strings.TrimSpace(c.Location)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.LanguagesSpoken = strings.TrimSpace(c.LanguagesSpoken)
	c.EditingSoftware = strings.TrimSpace(c.EditingSoftware)
	c.FollowerCount = strings.TrimSpace(c.FollowerCount)

	if c.ProfilePicture != nil {
		name := strings.TrimSpace(*c.ProfilePicture)
		if name == "" {
			c.ProfilePicture = nil
		} else {
			c.ProfilePicture = &name
		}
	}
	return c
}

// Validate checks presence of the required fields, column length limits and
// the enumerated single-select values. It does not check field formats.
func (c Candidate) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidCandidate, strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s has unsupported value %q", fe.Field(), fe.Value())
	}
}

// Profile converts the candidate into a row ready for insertion.
func (c Candidate) Profile() *Profile {
	return &Profile{
		FullName:                c.FullName,
		Username:                c.Username,
		ProfilePicture:          c.ProfilePicture,
		Location:                c.Location,
		Email:                   c.Email,
		Phone:                   c.Phone,
		Specialization:          c.Specialization,
		Skills:                  c.Skills,
		ExperienceLevel:         c.ExperienceLevel,
		LanguagesSpoken:         c.LanguagesSpoken,
		PortfolioLinks:          c.PortfolioLinks,
		PastProjects:            c.PastProjects,
		CameraEquipment:         c.CameraEquipment,
		AudioEquipment:          c.AudioEquipment,
		LightingEquipment:       c.LightingEquipment,
		EditingSoftware:         c.EditingSoftware,
		PreferredProjectTypes:   c.PreferredProjectTypes,
		PreferredIndustries:     c.PreferredIndustries,
		AvailabilityStatus:      c.AvailabilityStatus,
		Compensation:            c.Compensation,
		SocialMediaLinks:        c.SocialMediaLinks,
		FollowerCount:           c.FollowerCount,
		PrivacySettings:         c.PrivacySettings,
		NotificationPreferences: c.NotificationPreferences,
	}
}
