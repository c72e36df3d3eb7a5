package graph

import "github.com/brettviren/simzip/bufchan"

// sinkTask receives and discards messages on its single input port,
// forever. Grounded on original_source/simzip.cpp's sink coroutine.
type sinkTask struct {
	*nodeIO
}

func newSinkTask(ctx *Context, cfg NodeConfig, iports, oports []*bufchan.Channel[Message]) (Task, error) {
	if len(iports) == 0 {
		return nil, configErrorf("graph: sink %q declares no input port", cfg.Key())
	}
	return &sinkTask{nodeIO: newNodeIO(ctx, cfg, iports, oports)}, nil
}

func (t *sinkTask) Start() { t.tick() }

func (t *sinkTask) tick() {
	t.recv(func(Message) { t.tick() }, func() { t.tick() })
}
