package iocorpus

import (
	"github.com/cheggaaa/pb/v3"
)

// Progress follows loading of corpus files.
type Progress interface {
	// Start is called once with the number of files to load.
	Start(total int)

	// Increment is called after every file, loaded or skipped.
	Increment()

	// Finish is called when loading stops for any reason.
	Finish()
}

type noProgress struct{}

func (noProgress) Start(int)  {}
func (noProgress) Increment() {}
func (noProgress) Finish()    {}

// progressBar shows loading progress on the terminal.
type progressBar struct {
	bar *pb.ProgressBar
}

// NewProgressBar creates a terminal Progress for interactive commands.
func NewProgressBar() Progress {
	return &progressBar{}
}

func (p *progressBar) Start(total int) {
	p.bar = pb.Full.Start(total)
	p.bar.Set("prefix", "Loading corpus ")
	p.bar.Set(pb.CleanOnFinish, true)
}

func (p *progressBar) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *progressBar) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
