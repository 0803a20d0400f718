package pager

import (
	"time"

	"github.com/rzbill/lodex/pkg/log"
)

// requestSearch records text as the wanted search and schedules it.
func (e *Engine) requestSearch(text string) {
	if e.searchTimer != nil {
		e.searchTimer.Stop()
		e.searchTimer = nil
	}
	e.searchWanted = text
	if text == "" || e.opts.SearchDebounce < 0 {
		e.applySearch(text)
		return
	}
	e.searchTimer = time.AfterFunc(e.opts.SearchDebounce, func() {
		e.post(func() {
			if e.searchWanted == text {
				e.searchTimer = nil
				e.applySearch(text)
			}
		})
	})
}

// cancelSearch forgets the wanted and applied search text without reloading.
func (e *Engine) cancelSearch() {
	if e.searchTimer != nil {
		e.searchTimer.Stop()
		e.searchTimer = nil
	}
	e.searchWanted = ""
	e.search = ""
}

// applySearch resets the window under text and loads the first page.
func (e *Engine) applySearch(text string) {
	if text == e.search {
		return
	}
	e.logger.Debug("applying search", log.Str("text", text))
	e.search = text
	e.reset("")
	e.loadForward()
}
