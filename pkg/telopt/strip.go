package telopt

type stripState int

const (
	stData stripState = iota
	stIAC
	stOption
	stSB
	stSBIAC
)

// Stripper removes telnet commands from an inbound byte stream. State is kept
// across calls, so a command split over two reads is still removed.
//
// Handled forms: IAC WILL/WONT/DO/DONT <opt>, IAC SB ... IAC SE, IAC IAC
// (a literal 0xFF) and two-byte IAC <cmd>.
type Stripper struct {
	state stripState
}

// Strip returns p with telnet commands removed. The result may alias p.
func (s *Stripper) Strip(p []byte) []byte {
	out := p[:0]
	for _, c := range p {
		switch s.state {
		case stData:
			if c == IAC {
				s.state = stIAC
				continue
			}
			out = append(out, c)
		case stIAC:
			switch c {
			case IAC:
				out = append(out, IAC)
				s.state = stData
			case WILL, WONT, DO, DONT:
				s.state = stOption
			case SB:
				s.state = stSB
			default:
				s.state = stData
			}
		case stOption:
			s.state = stData
		case stSB:
			if c == IAC {
				s.state = stSBIAC
			}
		case stSBIAC:
			if c == SE {
				s.state = stData
			} else {
				s.state = stSB
			}
		}
	}
	return out
}
