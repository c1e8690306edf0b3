package chat

// Delivery результат асинхронной отправки черновика
type Delivery struct {
	LocalID string

	done      chan struct{}
	messageID string
	err       error
}

func newDelivery(localID string) *Delivery {
	return &Delivery{LocalID: localID, done: make(chan struct{})}
}

// Done закрывается после завершения отправки
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Wait блокируется до завершения отправки.
// Ошибка оборачивает ErrSendFailed, черновик при этом остается в ленте.
func (d *Delivery) Wait() error {
	<-d.done
	return d.err
}

// MessageID реальный ID сообщения после успешной отправки
func (d *Delivery) MessageID() string {
	<-d.done
	return d.messageID
}

func (d *Delivery) finish(messageID string, err error) {
	d.messageID = messageID
	d.err = err
	close(d.done)
}
