package submission

// Status is the client's lifecycle for one draft. Success is terminal;
// error goes back to submitting on retry.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Kind is the fixed taxonomy server and transport failures map onto.
type Kind string

const (
	KindSuccess         Kind = "success"
	KindRequestRejected Kind = "request_rejected"
	KindUnauthorized    Kind = "unauthorized"
	KindConflict        Kind = "conflict"
	KindServerFault     Kind = "server_fault"
	KindNetworkFailure  Kind = "network_failure"
)

// Outcome is what one submission attempt produced. Retryable is false only
// for unauthorized rejections, which need a fresh login rather than a
// resend.
type Outcome struct {
	Kind         Kind   `json:"kind"`
	Message      string `json:"message"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
	Retryable    bool   `json:"retryable"`
}

func (o Outcome) Success() bool { return o.Kind == KindSuccess }
