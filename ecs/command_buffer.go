package ecs

// Command is a structural mutation applied when the deferred scope closes.
type Command func(w *World)

// CommandBuffer queues structural mutations issued while systems iterate.
type CommandBuffer struct {
	cmds []Command
}

// Push queues cmd.
func (b *CommandBuffer) Push(cmd Command) {
	if b == nil || cmd == nil {
		return
	}
	b.cmds = append(b.cmds, cmd)
}

// Len returns the number of queued commands.
func (b *CommandBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.cmds)
}

// flush applies commands in FIFO order. Commands queued by other commands run
// in the same flush.
func (b *CommandBuffer) flush(w *World) {
	for len(b.cmds) > 0 {
		cmds := b.cmds
		b.cmds = nil
		for _, cmd := range cmds {
			cmd(w)
		}
	}
}
