package services

// Notifier pushes change notifications to a user's live connections.
type Notifier interface {
	NotifyUser(userID, action string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(string, string, interface{}) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
