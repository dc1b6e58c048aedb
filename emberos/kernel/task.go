package kernel

import "sync/atomic"

// Runner is the cooperative body of a task. Step is called whenever the
// task is runnable; it should do a bounded amount of work and return. A
// task with nothing to do calls ctx.Sleep before returning.
type Runner interface {
	Step(ctx *Context)
}

// Task is one scheduled unit: an id, a mailbox and a run/sleep flag.
type Task struct {
	id       TaskID
	runner   Runner
	mbox     Mailbox
	runnable atomic.Bool
}

// ID returns the task id.
func (t *Task) ID() TaskID { return t.id }

// Context gives a running task access to kernel operations.
type Context struct {
	m    *Manager
	task *Task
}

// TaskID returns the current task's id.
func (c *Context) TaskID() TaskID { return c.task.id }

// ReceiveMessage pops the oldest message, or returns false if the mailbox
// is empty.
func (c *Context) ReceiveMessage() (Message, bool) {
	return c.task.mbox.TryRecv()
}

// Sleep marks the task not runnable. The next SendMessage to it wakes it.
func (c *Context) Sleep() {
	c.task.runnable.Store(false)
	// A message that raced in between the empty poll and here must not be
	// lost: stay awake if something is queued.
	if c.task.mbox.head.Load() != c.task.mbox.tail.Load() {
		c.task.runnable.Store(true)
	}
}

// Send delivers a message to another task on behalf of this one.
func (c *Context) Send(to TaskID, msg Message) error {
	msg.Src = c.task.id
	return c.m.SendMessage(to, msg)
}
