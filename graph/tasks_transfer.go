package graph

import "github.com/brettviren/simzip/bufchan"

// transferTask crudely models transport (e.g. across a network) by
// relaying each message from its input to its output port after an
// optional simulated delay. An edge implicitly becomes a transferTask
// binding the tail's output port to the head's input port. Grounded on
// original_source/simzip.cpp's transfer coroutine.
type transferTask struct {
	*nodeIO
	delay Distribution
}

func newTransferTask(ctx *Context, cfg NodeConfig, iports, oports []*bufchan.Channel[Message]) (Task, error) {
	if len(iports) == 0 || len(oports) == 0 {
		return nil, configErrorf("graph: transfer %q needs one input and one output port", cfg.Key())
	}
	delayName := cfg.Data.String("delay", "random:zeros")
	delay, err := ctx.Rnd.Lookup(delayName)
	if err != nil {
		return nil, err
	}
	return &transferTask{nodeIO: newNodeIO(ctx, cfg, iports, oports), delay: delay}, nil
}

func (t *transferTask) Start() { t.tick() }

func (t *transferTask) tick() {
	t.recv(func(msg Message) {
		d := durationOf(t.delay.Sample())
		if d <= 0 {
			t.relay(msg)
			return
		}
		t.ctx.Sim.After(d).OnComplete(func(struct{}) { t.relay(msg) })
	}, func() { t.tick() })
}

func (t *transferTask) relay(msg Message) {
	t.send(msg, func() { t.tick() }, func() { t.tick() })
}
