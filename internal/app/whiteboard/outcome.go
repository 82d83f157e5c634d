package whiteboard

// Outcome is the result of a Board Service operation. Callers switch on it
// instead of inspecting errors.
type Outcome int

const (
	Succeeded Outcome = iota
	NotFound
	AlreadyExists
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case NotFound:
		return "not_found"
	case AlreadyExists:
		return "already_exists"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
