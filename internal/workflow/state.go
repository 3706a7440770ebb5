package workflow

// State is a step of the browse workflow.
type State int

// Workflow states in the order they are visited. Aborted is reachable from
// every state before Done.
const (
	StateSelectPublisher State = iota
	StateSelectOffer
	StateSelectSku
	StateResolveVersions
	StateRenderReport
	StateDone
	StateAborted
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateSelectPublisher:
		return "select_publisher"
	case StateSelectOffer:
		return "select_offer"
	case StateSelectSku:
		return "select_sku"
	case StateResolveVersions:
		return "resolve_versions"
	case StateRenderReport:
		return "render_report"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}
