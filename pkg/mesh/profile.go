package mesh

// Category groups service types by their role in a data flow.
type Category string

// Profile categories.
const (
	CategorySource    Category = "source"
	CategoryProcessor Category = "processor"
	CategorySink      Category = "sink"
	CategoryGeneric   Category = "generic"
)

// Profile describes the rendering and behavior defaults for a service type.
// Unknown types arriving from the AI design service resolve to the generic
// profile instead of being rejected; ProfileFor is the single place to
// change that policy.
type Profile struct {
	Title    string   // Human-readable type name
	Category Category // Role in the data flow
	Color    string   // Accent color (ANSI 256 or hex, renderer-dependent)
	Icon     string   // Short glyph for terminal rendering
}

// genericProfile is the fallback for service types outside the enumeration.
var genericProfile = Profile{Title: "Service", Category: CategoryGeneric, Color: "245", Icon: "◌"}

// ProfileFor returns the profile for a service type. Every enumerated type
// has a dedicated arm; anything else falls back to the generic profile.
func ProfileFor(t ServiceType) Profile {
	switch t {
	case TypeMessageBroker:
		return Profile{Title: "Message Broker", Category: CategorySource, Color: "36", Icon: "⇶"}
	case TypeHTTPEndpoint:
		return Profile{Title: "HTTP Endpoint", Category: CategorySink, Color: "75", Icon: "⇄"}
	case TypeDatabase:
		return Profile{Title: "Database", Category: CategorySink, Color: "35", Icon: "▤"}
	case TypeFilter:
		return Profile{Title: "Filter", Category: CategoryProcessor, Color: "220", Icon: "▽"}
	case TypeTransform:
		return Profile{Title: "Transform", Category: CategoryProcessor, Color: "213", Icon: "⇌"}
	case TypeGateway:
		return Profile{Title: "Gateway", Category: CategorySource, Color: "39", Icon: "⛩"}
	case TypeAI:
		return Profile{Title: "AI Processor", Category: CategoryProcessor, Color: "141", Icon: "✦"}
	case TypeProtocolBridge:
		return Profile{Title: "Protocol Bridge", Category: CategoryProcessor, Color: "208", Icon: "⇋"}
	case TypeSplitter:
		return Profile{Title: "Splitter", Category: CategoryProcessor, Color: "178", Icon: "⑂"}
	case TypeAggregator:
		return Profile{Title: "Aggregator", Category: CategoryProcessor, Color: "114", Icon: "⑃"}
	case TypeLogic:
		return Profile{Title: "Logic", Category: CategoryProcessor, Color: "167", Icon: "⌘"}
	default:
		return genericProfile
	}
}
