package booking

type Status string

const (
	StatusHolding   Status = "holding"
	StatusCommitted Status = "committed"
	StatusExpired   Status = "expired"
	StatusReleased  Status = "released"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the session can no longer change.
func (s Status) IsTerminal() bool {
	return s == StatusCommitted || s == StatusExpired || s == StatusReleased
}
