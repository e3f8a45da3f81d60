package session

// Store is the durable record of the current session, persisted across
// process restarts. Read yields the guest session when nothing is stored;
// Clear wipes every entry together.
type Store interface {
	Read() (Session, error)
	Write(Session) error
	Clear() error
}
