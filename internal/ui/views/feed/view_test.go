package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	checkindto "geomoments/internal/modules/checkin/dto"
)

type fakeFeed struct {
	out     checkindto.ListOutput
	err     error
	offline bool
	limit   int
}

func (f *fakeFeed) List(_ context.Context, offline bool, limit int) (checkindto.ListOutput, error) {
	f.offline, f.limit = offline, limit
	return f.out, f.err
}

var items = []checkindto.CheckInOutput{
	{ID: "b", Caption: "bun cha", Lat: 21.03, Lng: 105.85, CreatedAt: time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC), LikeCount: 4},
	{ID: "a", Lat: 10.77, Lng: 106.70, CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
}

func loaded(t *testing.T, port *fakeFeed) Model {
	t.Helper()
	m := New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	msg := m.Refresh(true)()
	m, _ = m.Update(msg)
	return m
}

// findFocus runs cmd and any batched commands, looking for
// a FocusMsg.
func findFocus(cmd tea.Cmd) (FocusMsg, bool) {
	if cmd == nil {
		return FocusMsg{}, false
	}
	switch msg := cmd().(type) {
	case FocusMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if focus, ok := findFocus(c); ok {
				return focus, true
			}
		}
	}
	return FocusMsg{}, false
}

func TestRefreshPassesOfflineAndLimit(t *testing.T) {
	t.Parallel()
	port := &fakeFeed{out: checkindto.ListOutput{Items: items}}
	m := loaded(t, port)
	if !port.offline || port.limit != feedLimit {
		t.Fatalf("unexpected list call offline=%v limit=%d", port.offline, port.limit)
	}
	if got := m.Items(); len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("unexpected items %+v", got)
	}
	if (checkInItem{item: items[1]}).Title() != noCaption {
		t.Fatalf("empty caption should read %q", noCaption)
	}
}

func TestEnterFocusesSelectedCheckIn(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakeFeed{out: checkindto.ListOutput{Items: items}})
	m.SelectID("a")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	focus, ok := findFocus(cmd)
	if !ok || focus.ID != "a" || focus.Lat != 10.77 {
		t.Fatalf("expected focus on a, got %+v ok=%v", focus, ok)
	}
}

func TestPrependMovesNewCheckInToTop(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakeFeed{out: checkindto.ListOutput{Items: items}})
	fresh := checkindto.CheckInOutput{ID: "c", Caption: "cafe"}
	m.Prepend(fresh)
	m.Prepend(fresh)
	got := m.Items()
	if len(got) != 3 || got[0].ID != "c" {
		t.Fatalf("expected c first without duplicates, got %+v", got)
	}
	if sel, ok := m.Selected(); !ok || sel.ID != "c" {
		t.Fatalf("new check-in should be selected, got %+v", sel)
	}
}

func TestStaleFeedShowsOfflineNote(t *testing.T) {
	t.Parallel()
	port := &fakeFeed{out: checkindto.ListOutput{
		Items:     items,
		Stale:     true,
		Warning:   "dial tcp: connection refused",
		FetchedAt: time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC),
	}}
	m := loaded(t, port)
	detail := m.renderDetail()
	if !strings.Contains(detail, "offline copy") || !strings.Contains(detail, "connection refused") {
		t.Fatalf("stale note missing:\n%s", detail)
	}
}

func TestLoadErrorShowsInTitle(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakeFeed{err: errors.New("no cached check-ins")})
	if !strings.Contains(m.list.Title, "no cached check-ins") {
		t.Fatalf("error should be surfaced, title=%q", m.list.Title)
	}
	if len(m.Items()) != 0 {
		t.Fatalf("expected no items")
	}
}
