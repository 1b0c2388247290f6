package profiles

// FieldKind is the widget a presentation layer should render for a field.
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindTextArea    FieldKind = "textarea"
	KindFile        FieldKind = "file"
	KindSelect      FieldKind = "select"
	KindMultiSelect FieldKind = "multiselect"
)

// Field describes one input of the registration form.
type Field struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	MaxChars int       `json:"max_chars,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Accept   []string  `json:"accept,omitempty"`
}

// Section groups related fields under a heading.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Form is the full registration form definition handed to presentation layers.
type Form struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
}

// Enumerated values for the single-select fields.
var (
	ExperienceLevels = []string{"Beginner", "Intermediate", "Professional", "Expert"}
	PrivacySettings  = []string{"Public", "Only visible to potential clients"}
)

// PictureExtensions lists the accepted profile picture file extensions.
var PictureExtensions = []string{".jpg", ".jpeg", ".png"}

var registrationForm = Form{
	Title:       "Videographer Profile Registration",
	Description: "Fill out the form below to register as a videographer and showcase your skills.",
	Sections: []Section{
		{
			Title: "A. Personal Information",
			Fields: []Field{
				{Key: "full_name", Label: "Full Name", Kind: KindText, Required: true, MaxChars: 50},
				{Key: "username", Label: "Username/Display Name", Kind: KindText, Required: true, MaxChars: 30},
				{Key: "profile_picture", Label: "Upload Profile Picture", Kind: KindFile, Accept: PictureExtensions},
				{Key: "location", Label: "Location (City, State/Province, Country)", Kind: KindText, MaxChars: 100},
				{Key: "email", Label: "Email Address", Kind: KindText, Required: true, MaxChars: 100},
				{Key: "phone", Label: "Phone Number (Optional)", Kind: KindText, MaxChars: 20},
			},
		},
		{
			Title: "B. Professional Information",
			Fields: []Field{
				{Key: "specialization", Label: "Select Your Specialization", Kind: KindMultiSelect, Options: []string{
					"Event Videography", "Commercial Videography", "Music Videos", "Documentaries",
					"Social Media Content", "Corporate Videos", "Short Films", "Other",
				}},
				{Key: "skills", Label: "Select Your Skills", Kind: KindMultiSelect, Options: []string{
					"Camera Operation", "Drone Videography", "Video Editing", "Sound Recording",
					"Color Grading", "Lighting Setup", "Storyboarding",
				}},
				{Key: "experience_level", Label: "Experience Level", Kind: KindSelect, MaxChars: 20, Options: ExperienceLevels},
				{Key: "languages_spoken", Label: "Languages Spoken (Optional)", Kind: KindText, MaxChars: 100},
			},
		},
		{
			Title: "C. Portfolio & Work Samples",
			Fields: []Field{
				{Key: "portfolio_links", Label: "Links to Portfolio (e.g., YouTube, Vimeo)", Kind: KindTextArea},
				{Key: "past_projects", Label: "Describe Past Projects (Optional)", Kind: KindTextArea},
			},
		},
		{
			Title: "D. Equipment",
			Fields: []Field{
				{Key: "camera_equipment", Label: "List of Camera Equipment", Kind: KindTextArea},
				{Key: "audio_equipment", Label: "List of Audio Equipment (Optional)", Kind: KindTextArea},
				{Key: "lighting_equipment", Label: "List of Lighting Equipment (Optional)", Kind: KindTextArea},
				{Key: "editing_software", Label: "Video Editing Software", Kind: KindText, MaxChars: 100},
			},
		},
		{
			Title: "E. Collaboration Preferences",
			Fields: []Field{
				{Key: "preferred_project_types", Label: "Preferred Project Types", Kind: KindMultiSelect, Options: []string{
					"Short Films", "Commercials", "Music Videos", "Corporate Videos", "Event Videos", "Social Media Content",
				}},
				{Key: "preferred_industries", Label: "Preferred Industries (Optional)", Kind: KindMultiSelect, Options: []string{
					"Entertainment", "Advertising", "Fashion", "Technology", "Education", "Other",
				}},
				{Key: "availability_status", Label: "Availability Status", Kind: KindMultiSelect, Options: []string{
					"Available Immediately", "Part-time Availability", "Full-time Availability",
				}},
				{Key: "compensation", Label: "Preferred Compensation", Kind: KindMultiSelect, Options: []string{
					"Hourly Rates", "Project-based Rates", "Monetary Payment", "Negotiable",
				}},
			},
		},
		{
			Title: "F. Social Media & Online Presence",
			Fields: []Field{
				{Key: "social_media_links", Label: "Add Social Media Links (Optional)", Kind: KindTextArea},
				{Key: "follower_count", Label: "Followers/Subscribers Count (Optional)", Kind: KindText, MaxChars: 20},
			},
		},
		{
			Title: "H. Account Settings",
			Fields: []Field{
				{Key: "privacy_settings", Label: "Profile Visibility", Kind: KindSelect, MaxChars: 30, Options: PrivacySettings},
				{Key: "notification_preferences", Label: "Notification Preferences", Kind: KindMultiSelect, Options: []string{
					"Email Notifications", "SMS Notifications", "In-app Notifications",
				}},
			},
		},
	},
}

// RegistrationForm returns the registration form definition.
func RegistrationForm() Form {
	return registrationForm
}

// Fields returns every form field in display order.
func (f Form) Fields() []Field {
	var fields []Field
	for _, section := range f.Sections {
		fields = append(fields, section.Fields...)
	}
	return fields
}

// Field looks up a field by key.
func (f Form) Field(key string) (Field, bool) {
	for _, field := range f.Fields() {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}
