package domain

type Command string

const (
	PingCommand       Command = "ping"
	TracerouteCommand Command = "traceroute"
	DNSCommand        Command = "dns"
	MTRCommand        Command = "mtr"
	HTTPCommand       Command = "http"
)

// Commands is the closed set of measurement types in display order.
var Commands = []Command{
	PingCommand,
	TracerouteCommand,
	DNSCommand,
	MTRCommand,
	HTTPCommand,
}

func (c Command) String() string {
	return string(c)
}

// AcceptsResolver reports whether the dig-style @resolver token is meaningful for c.
func (c Command) AcceptsResolver() bool {
	return c == DNSCommand || c == HTTPCommand
}
