package dispatch

// Channel is the transport a notification went through.
type Channel string

const (
	ChannelMail   Channel = "mail"
	ChannelPush   Channel = "push"
	ChannelSocket Channel = "socket"
)

// Status is the result of one delivery attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Outcome describes one delivery attempt for observability.
// Label is the template name for mail, the topic or addressing mode for push
// and the event name for socket. Delivered and Failed count devices for
// multicast push and are zero otherwise.
type Outcome struct {
	Channel   Channel
	Status    Status
	Label     string
	Delivered int
	Failed    int
}

// Recorder receives one Outcome per attempt.
type Recorder interface {
	Record(o Outcome)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(o Outcome)

func (f RecorderFunc) Record(o Outcome) { f(o) }

type nopRecorder struct{}

func (nopRecorder) Record(Outcome) {}
