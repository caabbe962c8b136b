package types

// Platform identifies a Notifly client SDK.
type Platform string

// Supported SDK platforms.
const (
	PlatformIOS         Platform = "ios"
	PlatformAndroid     Platform = "android"
	PlatformFlutter     Platform = "flutter"
	PlatformReactNative Platform = "react-native"
	PlatformJS          Platform = "js"
)

// AllPlatforms lists every supported platform in stable order.
var AllPlatforms = []Platform{
	PlatformIOS,
	PlatformAndroid,
	PlatformFlutter,
	PlatformReactNative,
	PlatformJS,
}

// ValidPlatform reports whether p names a supported SDK platform.
func ValidPlatform(p Platform) bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// DocPage is one entry of the documentation index.
type DocPage struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Section     string `json:"section,omitempty"`
}

// Validate checks that the page carries the fields ranking depends on.
func (p *DocPage) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if p.URL == "" {
		return ErrEmptyURL
	}
	return nil
}

// SDKFile is one entry of a per-platform SDK source file index.
type SDKFile struct {
	Platform Platform `json:"platform"`
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	URL      string   `json:"url"`
}

// Validate checks that the file entry is complete enough to rank and fetch.
func (f *SDKFile) Validate() error {
	if !ValidPlatform(f.Platform) {
		return ErrUnknownPlatform
	}
	if f.Path == "" {
		return ErrEmptyPath
	}
	if f.URL == "" {
		return ErrEmptyURL
	}
	return nil
}
