package mailer

// FakeMailer records broadcasts instead of sending them. Meant for tests
// and local development.
type FakeMailer struct {
	Broadcasts []RecordedBroadcast
	Err        error
}

type RecordedBroadcast struct {
	Subject    string
	Body       string
	Recipients []string
}

func (f *FakeMailer) Broadcast(subject, body string, recipients []string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Broadcasts = append(f.Broadcasts, RecordedBroadcast{
		Subject:    subject,
		Body:       body,
		Recipients: recipients,
	})
	return nil
}
