package profiles

// Profile is one registered videographer. Rows are written once by the
// Submitter and never updated or deleted.
type Profile struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName       string  `gorm:"column:full_name;size:50;not null" json:"full_name"`
	Username       string  `gorm:"column:username;size:30;not null;uniqueIndex:idx_profiles_username" json:"username"`
	ProfilePicture *string `gorm:"column:profile_picture;type:text" json:"profile_picture"`
	Location       string  `gorm:"column:location;size:100" json:"location"`
	Email          string  `gorm:"column:email;size:100;not null" json:"email"`
	Phone          string  `gorm:"column:phone;size:20" json:"phone"`

	Specialization  string `gorm:"column:specialization;type:text" json:"specialization"`
	Skills          string `gorm:"column:skills;type:text" json:"skills"`
	ExperienceLevel string `gorm:"column:experience_level;size:20" json:"experience_level"`
	LanguagesSpoken string `gorm:"column:languages_spoken;size:100" json:"languages_spoken"`

	PortfolioLinks string `gorm:"column:portfolio_links;type:text" json:"portfolio_links"`
	PastProjects   string `gorm:"column:past_projects;type:text" json:"past_projects"`

	CameraEquipment   string `gorm:"column:camera_equipment;type:text" json:"camera_equipment"`
	AudioEquipment    string `gorm:"column:audio_equipment;type:text" json:"audio_equipment"`
	LightingEquipment string `gorm:"column:lighting_equipment;type:text" json:"lighting_equipment"`
	EditingSoftware   string `gorm:"column:editing_software;size:100" json:"editing_software"`

	PreferredProjectTypes string `gorm:"column:preferred_project_types;type:text" json:"preferred_project_types"`
	PreferredIndustries   string `gorm:"column:preferred_industries;type:text" json:"preferred_industries"`
	AvailabilityStatus    string `gorm:"column:availability_status;type:text" json:"availability_status"`
	Compensation          string `gorm:"column:compensation;type:text" json:"compensation"`

	SocialMediaLinks string `gorm:"column:social_media_links;type:text" json:"social_media_links"`
	FollowerCount    string `gorm:"column:follower_count;size:20" json:"follower_count"`

	PrivacySettings         string `gorm:"column:privacy_settings;size:30" json:"privacy_settings"`
	NotificationPreferences string `gorm:"column:notification_preferences;type:text" json:"notification_preferences"`
}

// TableName pins the table name used by every store.
func (Profile) TableName() string { return "profiles" }

// Columns lists the declared columns of the profiles table in declaration order.
var Columns = []string{
	"id",
	"full_name",
	"username",
	"profile_picture",
	"location",
	"email",
	"phone",
	"specialization",
	"skills",
	"experience_level",
	"languages_spoken",
	"portfolio_links",
	"past_projects",
	"camera_equipment",
	"audio_equipment",
	"lighting_equipment",
	"editing_software",
	"preferred_project_types",
	"preferred_industries",
	"availability_status",
	"compensation",
	"social_media_links",
	"follower_count",
	"privacy_settings",
	"notification_preferences",
}
