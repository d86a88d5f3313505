package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "abc…", Truncate("abcdef", 3))
	assert.Equal(t, "ÄÖÜ…", Truncate("ÄÖÜßé", 3))
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestWebxdcTitle(t *testing.T) {
	t.Run("with document", func(t *testing.T) {
		title := WebxdcTitle(WebxdcInfo{Name: "Poll", Document: "Lunch"}, "Team")
		assert.Equal(t, "Lunch - Poll – Team", title)
	})

	t.Run("without document", func(t *testing.T) {
		title := WebxdcTitle(WebxdcInfo{Name: "Poll"}, "Team")
		assert.Equal(t, "Poll – Team", title)
	})

	t.Run("long values are truncated", func(t *testing.T) {
		info := WebxdcInfo{Name: strings.Repeat("n", 50), Document: strings.Repeat("d", 40)}
		title := WebxdcTitle(info, "Chat")
		assert.Equal(t, strings.Repeat("d", 32)+"… - "+strings.Repeat("n", 42)+"… – Chat", title)
	})
}

func TestMessage_IsWebxdc(t *testing.T) {
	var nilMsg *Message
	assert.False(t, nilMsg.IsWebxdc())
	assert.False(t, (&Message{ViewType: ViewTypeText, File: "a.xdc"}).IsWebxdc())
	assert.False(t, (&Message{ViewType: ViewTypeWebxdc}).IsWebxdc())
	assert.True(t, (&Message{ViewType: ViewTypeWebxdc, File: "a.xdc"}).IsWebxdc())
}

func TestPartitionID(t *testing.T) {
	id := NewPartitionID(7, 0x01020304)

	assert.Equal(t, "webxdc__", string(id[:8]))
	assert.Equal(t, []byte{0, 0, 0, 7, 1, 2, 3, 4}, id[8:])
	assert.True(t, id.IsWebxdc())
	assert.Equal(t, uint32(7), id.AccountID())
	assert.Equal(t, uint32(0x01020304), id.MessageID())

	var other PartitionID
	copy(other[:], "notwebxdc0000000")
	assert.False(t, other.IsWebxdc())
}

func TestLabels(t *testing.T) {
	label := NewEmbeddedLabel()
	assert.True(t, IsEmbeddedLabel(label))
	assert.NotEqual(t, label, NewEmbeddedLabel())
	assert.False(t, IsEmbeddedLabel("embedded:"))
	assert.False(t, IsEmbeddedLabel(MainWindowLabel))

	html := NewHTMLWindowLabel()
	got, ok := HTMLWindowLabelFromContent(html + HTMLContentSuffix)
	assert.True(t, ok)
	assert.Equal(t, html, got)

	_, ok = HTMLWindowLabelFromContent(html + HTMLHeaderSuffix)
	assert.False(t, ok)
	_, ok = HTMLWindowLabelFromContent(html)
	assert.False(t, ok)
	_, ok = HTMLWindowLabelFromContent("html-window:-mail")
	assert.False(t, ok)
}

func TestSplitTop(t *testing.T) {
	top, bottom := SplitTop(Size{Width: 800, Height: 600}, 100)
	assert.Equal(t, Rect{Width: 800, Height: 100}, top)
	assert.Equal(t, Rect{Y: 100, Width: 800, Height: 500}, bottom)

	_, bottom = SplitTop(Size{Width: 300, Height: 50}, 100)
	assert.Equal(t, 0.0, bottom.Height)
}
