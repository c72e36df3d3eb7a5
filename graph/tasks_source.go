package graph

import "github.com/brettviren/simzip/bufchan"

// sourceTask produces a steady or bursty stream of freshly created
// messages on its single output port. Grounded on
// original_source/simzip.cpp's source/burst coroutines.
type sourceTask struct {
	*nodeIO
	delay Distribution
	count Distribution // nil unless burst
}

func newSourceTaskFactory(burst bool) TaskFactory {
	return func(ctx *Context, cfg NodeConfig, iports, oports []*bufchan.Channel[Message]) (Task, error) {
		if len(oports) == 0 {
			return nil, configErrorf("graph: source %q declares no output port", cfg.Key())
		}
		delayName := cfg.Data.String("delay", "")
		delay, err := ctx.Rnd.Lookup(delayName)
		if err != nil {
			return nil, err
		}
		t := &sourceTask{
			nodeIO: newNodeIO(ctx, cfg, iports, oports),
			delay:  delay,
		}
		if burst {
			countName := cfg.Data.String("count", "")
			count, err := ctx.Rnd.Lookup(countName)
			if err != nil {
				return nil, err
			}
			t.count = count
		}
		return t, nil
	}
}

func (t *sourceTask) Start() { t.tick() }

func (t *sourceTask) tick() {
	t.ctx.Sim.After(durationOf(t.delay.Sample())).OnComplete(func(struct{}) {
		msg := t.create()
		if t.count == nil {
			t.send(msg, nil, nil)
			t.tick()
			return
		}
		n := int(t.count.Sample())
		t.sendBurst(msg, n)
	})
}

// sendBurst pushes n copies of msg in sequence, each suspending on the
// output port's backpressure before the next is attempted, then resumes
// the source's main loop. Grounded on the burst coroutine's
// `for (int num = count(); num > 0; --num) ctx.send(msg);`.
func (t *sourceTask) sendBurst(msg Message, remaining int) {
	if remaining <= 0 {
		t.tick()
		return
	}
	t.send(msg, func() { t.sendBurst(msg, remaining-1) }, func() { t.sendBurst(msg, remaining-1) })
}
