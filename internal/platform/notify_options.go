package platform

// Urgency mirrors the freedesktop notification urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender. Empty means "stickerpad".
	AppName string
	// IconPath, when non-empty, points to an image shown with the
	// notification where supported.
	IconPath string
	Urgency  Urgency
	// TimeoutMillis is how long the notification stays up. Zero picks the
	// platform default.
	TimeoutMillis int32
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "stickerpad"
	}
	return o.AppName
}
