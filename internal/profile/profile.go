package profile

// Profile bundles the two compression knobs for a target use.
type Profile struct {
	Name    string
	MaxSize int // maximum width/height in pixels
	Level   int // JPEG compression level 0-100
}

// Built-in profiles.
var profiles = map[string]Profile{
	"web": {
		Name:    "web",
		MaxSize: 1280,
		Level:   82,
	},
	"avatar": {
		Name:    "avatar",
		MaxSize: 256,
		Level:   75,
	},
	"thumbnail": {
		Name:    "thumbnail",
		MaxSize: 320,
		Level:   78,
	},
}

// Get returns a profile by name. Falls back to web if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["web"]
	p.Name = name // preserve requested name
	return p
}
