package kernel

import "ember/emberos/kerror"

const maxTasks = 32

// Manager owns all tasks and runs them cooperatively.
type Manager struct {
	tasks []*Task
	rr    int

	// wake is signaled whenever a sleeping task becomes runnable so the
	// kernel loop can block instead of spinning.
	wake chan struct{}
}

// NewManager returns an empty task manager.
func NewManager() *Manager {
	return &Manager{wake: make(chan struct{}, 1)}
}

// NewTask registers a runner and returns its task. Ids are dense and start
// at 1; the first registered task is the render task.
func (m *Manager) NewTask(r Runner) (*Task, error) {
	if len(m.tasks) >= maxTasks {
		return nil, kerror.Full
	}
	t := &Task{id: TaskID(len(m.tasks) + 1), runner: r}
	t.runnable.Store(true)
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *Manager) task(id TaskID) *Task {
	if id == 0 || int(id) > len(m.tasks) {
		return nil
	}
	return m.tasks[id-1]
}

// SendMessage appends to the task's mailbox and wakes it. It is the only
// kernel entry point interrupt context may use.
func (m *Manager) SendMessage(id TaskID, msg Message) error {
	t := m.task(id)
	if t == nil {
		return kerror.NoWaiter
	}
	if !t.mbox.TrySend(msg) {
		return kerror.Full
	}
	t.runnable.Store(true)
	select {
	case m.wake <- struct{}{}:
	default:
	}
	return nil
}

// Step runs one runnable task once, round-robin. It reports whether any
// task ran.
func (m *Manager) Step() bool {
	n := len(m.tasks)
	for i := 0; i < n; i++ {
		t := m.tasks[(m.rr+i)%n]
		if !t.runnable.Load() {
			continue
		}
		m.rr = (m.rr + i + 1) % n
		t.runner.Step(&Context{m: m, task: t})
		return true
	}
	return false
}

// Run steps tasks until stop closes, blocking on the wake signal whenever
// every task sleeps.
func (m *Manager) Run(stop <-chan struct{}) {
	for {
		if m.Step() {
			select {
			case <-stop:
				return
			default:
			}
			continue
		}
		select {
		case <-stop:
			return
		case <-m.wake:
		}
	}
}
