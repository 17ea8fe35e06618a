package bot

// Notifier adapts the package-level send functions to the notifier
// interface the attendance and make-up services depend on, keeping them
// decoupled from this package's globals.
type Notifier struct{}

// NewNotifier creates a notifier backed by the initialized bot. Safe to use
// before Init: sends become no-ops.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// SendNotification alerts the admin chat (late arrivals, blocked attempts,
// new make-up requests).
func (n *Notifier) SendNotification(message string) {
	SendNotification(message)
}

// SendPersonalNotification messages one employee's linked chat.
func (n *Notifier) SendPersonalNotification(chatID int64, message string) {
	SendPersonalNotification(chatID, message)
}

var _ interface {
	SendNotification(message string)
	SendPersonalNotification(chatID int64, message string)
} = (*Notifier)(nil)
