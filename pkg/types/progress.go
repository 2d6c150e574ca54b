package types

// Progress receives run events. Any nil member is skipped. Callbacks run on
// the engine's goroutine and should return quickly.
type Progress struct {
	OnTested   func(file string, result MatchType, values []string)
	OnMatched  func(file string, result MatchType, values []string)
	OnError    func(err error, file string)
	OnComplete func(success bool)
}

func (p Progress) Tested(file string, result MatchType, values []string) {
	if p.OnTested != nil {
		p.OnTested(file, result, values)
	}
}

func (p Progress) Matched(file string, result MatchType, values []string) {
	if p.OnMatched != nil {
		p.OnMatched(file, result, values)
	}
}

// Error reports err. file is empty for errors not tied to one file.
func (p Progress) Error(err error, file string) {
	if p.OnError != nil && err != nil {
		p.OnError(err, file)
	}
}

func (p Progress) Complete(success bool) {
	if p.OnComplete != nil {
		p.OnComplete(success)
	}
}
