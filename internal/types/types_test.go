package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventWireShape(t *testing.T) {
	cases := map[string]struct {
		ev   Event
		want string
	}{
		"move at origin keeps zero coords": {Move(0, 0), `{"action":"move","x":0,"y":0}`},
		"click":                            {Click(), `{"action":"click","button":"left","count":1}`},
		"type":                             {KeyPress("a"), `{"action":"type","text":"a"}`},
		"navigate":                         {Navigate("https://example.com"), `{"action":"navigate","url":"https://example.com"}`},
		"scroll down":                      {Scroll(120), `{"action":"scroll","direction":"down","amount":120}`},
		"scroll up keeps negative amount":  {Scroll(-3.5), `{"action":"scroll","direction":"up","amount":-3.5}`},
		"close tab":                        {CloseTab(), `{"action":"close_tab"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(tc.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(b))
		})
	}
}

func TestScrollZeroDeltaIsUp(t *testing.T) {
	ev := Scroll(0)
	assert.Equal(t, ScrollUp, ev.Direction)
	require.NotNil(t, ev.Amount)
	assert.Zero(t, *ev.Amount)
}
