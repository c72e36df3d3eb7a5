package graph

import "github.com/brettviren/simzip/bufchan"

// makePorts builds one bufchan.Channel[Message] per capacity declared at
// data[which] ("ibox" for inputs, "obox" for outputs): a bare number yields
// one port of that capacity, an array yields one port per entry. Grounded
// on original_source/simzip.cpp's make_ports.
func makePorts(cfg NodeConfig, which string) []*bufchan.Channel[Message] {
	caps := cfg.Data.Ports(which)
	ports := make([]*bufchan.Channel[Message], 0, len(caps))
	for _, c := range caps {
		if c < 1 {
			c = 1
		}
		ports = append(ports, bufchan.NewChannel[Message](c))
	}
	return ports
}
