package messages

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

func TestNewLog_StartsWithGreeting(t *testing.T) {
	l := NewLog()
	assert.Equal(t, InfoMessage{Text: Greeting}, l.Current())
}

func TestDispatch_CostRendersOneRowPerResource(t *testing.T) {
	l := NewLog()

	changed := l.Dispatch(CostAction{Title: "Cost", Data: models.Amounts{"Silicone": 10, "Iron": 2}})
	require.True(t, changed)

	msg, ok := l.Current().(CostMessage)
	require.True(t, ok)
	assert.Equal(t, []CostRow{
		{Resource: "Iron", Amount: 2, Icon: "iron.png"},
		{Resource: "Silicone", Amount: 10, Icon: "silicone.png"},
	}, msg.Rows)
}

func TestDispatch_UnknownIsNoop(t *testing.T) {
	l := NewLog()
	l.Dispatch(ErrorAction{Text: "boom"})

	var calls int
	l.Subscribe(func(Message) { calls++ })

	assert.False(t, l.Dispatch(UnknownAction{Type: "celebrate"}))
	assert.False(t, l.Dispatch(nil))
	assert.Equal(t, ErrorMessage{Text: "boom"}, l.Current())
	assert.Zero(t, calls)
}

func TestDispatch_ReplacesPrevious(t *testing.T) {
	l := NewLog()
	var got []Message
	l.Subscribe(func(m Message) { got = append(got, m) })

	l.Dispatch(CostAction{Title: "a", Data: models.Amounts{"METAL": 1}})
	l.Dispatch(InfoAction{Text: "done"})

	assert.Equal(t, InfoMessage{Text: "done"}, l.Current())
	require.Len(t, got, 2)
	assert.Equal(t, KindCost, got[0].Kind())
	assert.Equal(t, KindInfo, got[1].Kind())
}

func TestDispatch_Concurrent_LastWriterWins(t *testing.T) {
	l := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Dispatch(InfoAction{Text: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, InfoMessage{Text: "x"}, l.Current())
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Action
	}{
		{"cost default title", `{"type":"cost","data":{"SILICONE":10,"IRON":2}}`,
			CostAction{Title: DefaultCostTitle, Data: models.Amounts{"SILICONE": 10, "IRON": 2}}},
		{"cost with title", `{"type":"cost","title":"Upgrade","data":{"METAL":5}}`,
			CostAction{Title: "Upgrade", Data: models.Amounts{"METAL": 5}}},
		{"error", `{"type":"error","data":"no ships"}`, ErrorAction{Text: "no ships"}},
		{"info without data", `{"type":"info"}`, InfoAction{}},
		{"unknown", `{"type":"party","data":[1,2]}`, UnknownAction{Type: "party"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAction_Errors(t *testing.T) {
	for _, in := range []string{`nope`, `{"type":"cost","data":"x"}`, `{"type":"error","data":3}`} {
		_, err := DecodeAction([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, CostMessage{Title: "Resources needed to upgrade storage", Rows: []CostRow{
		{Resource: "METAL", Amount: 100, Icon: "metal.png"},
	}}))
	require.NoError(t, Render(&buf, ErrorMessage{Text: "mission failed"}))
	require.NoError(t, Render(&buf, InfoMessage{Text: Greeting}))

	assert.Equal(t,
		"Resources needed to upgrade storage:\n  [metal.png] METAL: 100\n! mission failed\n"+Greeting+"\n",
		buf.String())
}
