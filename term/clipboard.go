package term

import (
	"log"
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard receives text copied from the document.
type Clipboard interface {
	Write(text string)
}

// systemClipboard writes to the OS clipboard. It initializes lazily and
// degrades to a no-op (with a warning) where no clipboard is available,
// e.g. a headless session without X11.
type systemClipboard struct {
	logger *log.Logger
	once   sync.Once
	ok     bool
}

func (c *systemClipboard) Write(text string) {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.logger.Printf("WARNING: clipboard unavailable: %v", err)
			return
		}
		c.ok = true
	})
	if !c.ok {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
}
