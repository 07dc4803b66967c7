package x11

import (
	"fmt"
	"time"
	"unicode"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil/keybind"
)

// charKeysyms maps URL-typical punctuation to X keysym names. Letters and
// digits map to themselves and are handled in keysymForRune.
var charKeysyms = map[rune]string{
	' ':  "space",
	'!':  "exclam",
	'#':  "numbersign",
	'$':  "dollar",
	'%':  "percent",
	'&':  "ampersand",
	'+':  "plus",
	',':  "comma",
	'-':  "minus",
	'.':  "period",
	'/':  "slash",
	':':  "colon",
	';':  "semicolon",
	'=':  "equal",
	'?':  "question",
	'@':  "at",
	'_':  "underscore",
	'~':  "asciitilde",
	'"':  "quotedbl",
	'\'': "apostrophe",
}

// keysymForRune resolves a rune to its keysym name plus whether Shift must
// be held in addition to whatever the keyboard map requires.
func keysymForRune(r rune) (sym string, shifted bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return string(r), false, true
	case r >= 'A' && r <= 'Z':
		return string(unicode.ToLower(r)), true, true
	default:
		sym, ok = charKeysyms[r]
		return sym, false, ok
	}
}

// lookupKeycode finds the keycode producing the given keysym and whether the
// keysym lives in the shifted column of the keyboard map.
func (c *Connection) lookupKeycode(sym string) (xproto.Keycode, bool, error) {
	codes := keybind.StrToKeycodes(c.XUtil, sym)
	if len(codes) == 0 {
		return 0, false, fmt.Errorf("no keycode mapped for keysym %q", sym)
	}
	keycode := codes[0]
	if keybind.KeysymToStr(keybind.KeysymGet(c.XUtil, keycode, 0)) == sym {
		return keycode, false, nil
	}
	return keycode, true, nil
}

// fakeKey synthesizes one key press or release via XTEST, delivered to
// whichever window currently has input focus.
func (c *Connection) fakeKey(keycode xproto.Keycode, press bool) error {
	eventType := byte(xproto.KeyPress)
	if !press {
		eventType = byte(xproto.KeyRelease)
	}
	return xtest.FakeInputChecked(
		c.XUtil.Conn(),
		eventType,
		byte(keycode),
		0, // CurrentTime
		c.Root,
		0, 0,
		0,
	).Check()
}

// KeyChord presses the named modifier keysyms, taps the key, and releases
// the modifiers in reverse order. Modifiers use keysym names such as
// "Control_L" or "Shift_L"; key is a plain keysym like "t", "0", "minus"
// or "Return".
func (c *Connection) KeyChord(modifiers []string, key string) error {
	if err := c.initXTest(); err != nil {
		return err
	}

	keycode, shifted, err := c.lookupKeycode(key)
	if err != nil {
		return err
	}

	var held []xproto.Keycode
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			c.fakeKey(held[i], false)
		}
	}

	mods := modifiers
	if shifted {
		mods = append(append([]string{}, modifiers...), "Shift_L")
	}
	for _, mod := range mods {
		modCode, _, err := c.lookupKeycode(mod)
		if err != nil {
			release()
			return err
		}
		if err := c.fakeKey(modCode, true); err != nil {
			release()
			return err
		}
		held = append(held, modCode)
	}

	if err := c.fakeKey(keycode, true); err != nil {
		release()
		return err
	}
	if err := c.fakeKey(keycode, false); err != nil {
		release()
		return err
	}

	release()
	c.XUtil.Sync()
	return nil
}

// TypeText types a string one synthesized keystroke at a time, sleeping
// perKeyDelay between characters. Characters with no keysym mapping abort
// with an error before any further keys are sent.
func (c *Connection) TypeText(text string, perKeyDelay time.Duration) error {
	if err := c.initXTest(); err != nil {
		return err
	}

	for _, r := range text {
		sym, shifted, ok := keysymForRune(r)
		if !ok {
			return fmt.Errorf("cannot synthesize character %q", r)
		}

		var mods []string
		if shifted {
			mods = []string{"Shift_L"}
		}
		if err := c.KeyChord(mods, sym); err != nil {
			return fmt.Errorf("failed to type %q: %w", r, err)
		}
		if perKeyDelay > 0 {
			time.Sleep(perKeyDelay)
		}
	}
	return nil
}
