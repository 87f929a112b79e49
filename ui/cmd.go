package ui

// Cmd is what an update asks of the App once the message is handled: an
// optional notification for the parent and an optional task.
type Cmd[M, B any] struct {
	sub  *B
	task func(resolve func(M))
}

// None is the command that does nothing.
func None[M, B any]() Cmd[M, B] { return Cmd[M, B]{} }

// Notify emits sub to the parent's subscription handler.
func Notify[M, B any](sub B) Cmd[M, B] { return Cmd[M, B]{sub: &sub} }

// Task runs task after the App has rendered the update that returned it.
// resolve dispatches a message back to the component; it must be called on
// the goroutine that delivers events (see term.Host.Post for work finished
// elsewhere).
//
//	return ui.Task[Msg, Sub](func(resolve func(Msg)) {
//		resolve(Msg{Loaded: load()})
//	})
func Task[M, B any](task func(resolve func(M))) Cmd[M, B] {
	return Cmd[M, B]{task: task}
}

// WithTask adds task to a notification command.
func (c Cmd[M, B]) WithTask(task func(resolve func(M))) Cmd[M, B] {
	c.task = task
	return c
}

func (c Cmd[M, B]) isNone() bool { return c.sub == nil && c.task == nil }
