// This file is part of Picostick.
//
// Picostick is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Picostick is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Picostick.  If not, see <https://www.gnu.org/licenses/>.

package demo

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/jetsetilly/picostick/curated"
	"github.com/jetsetilly/picostick/hardware/spec"
)

// name of the global function called once per frame
const frameFunction = "frame"

// Script animates sprites with a Lua script. The script must define a global
// function called frame, which is called with the frame number after every
// frame. The following functions are available to the script:
//
//	sprite(i, idx, x, y [, blend])	set sprite slot i to sprite idx at x,y
//	move(i, x, y)			move sprite slot i
//	clear(i)			disable sprite slot i
//	offset(plane, n)		set the address offset of a scroll plane
//	heartbeat(on)			enable or disable the heartbeat line
//	width()				width of the frame
//	height()			height of the frame
//	sprites()			number of sprites in the sprite table
//
// Blend modes are named "copy", "depth" and "blend".
type Script struct {
	L    *lua.LState
	disp Display
	pat  Pattern

	frame *lua.LFunction
}

// NewScript loads the script from a file. If the filename is empty the
// script is loaded from src.
func NewScript(ctx context.Context, disp Display, pat Pattern, filename string, src string) (*Script, error) {
	s := &Script{
		L:    lua.NewState(),
		disp: disp,
		pat:  pat,
	}
	s.L.SetContext(ctx)

	s.register("sprite", s.luaSprite)
	s.register("move", s.luaMove)
	s.register("clear", s.luaClear)
	s.register("offset", s.luaOffset)
	s.register("heartbeat", s.luaHeartbeat)
	s.register("width", func(L *lua.LState) int {
		L.Push(lua.LNumber(s.pat.Width))
		return 1
	})
	s.register("height", func(L *lua.LState) int {
		L.Push(lua.LNumber(s.pat.Height))
		return 1
	})
	s.register("sprites", func(L *lua.LState) int {
		L.Push(lua.LNumber(len(s.pat.Sprites)))
		return 1
	})

	var err error
	if filename != "" {
		err = s.L.DoFile(filename)
	} else {
		err = s.L.DoString(src)
	}
	if err != nil {
		s.L.Close()
		return nil, curated.Errorf("demo: %v", err)
	}

	fn, ok := s.L.GetGlobal(frameFunction).(*lua.LFunction)
	if !ok {
		s.L.Close()
		return nil, curated.Errorf("demo: script has no %s() function", frameFunction)
	}
	s.frame = fn

	return s, nil
}

func (s *Script) register(name string, f lua.LGFunction) {
	s.L.SetGlobal(name, s.L.NewFunction(f))
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.L.Close()
}

// Frame calls the script's frame function.
func (s *Script) Frame(n int) error {
	err := s.L.CallByParam(lua.P{
		Fn:      s.frame,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(n))
	if err != nil {
		return curated.Errorf("demo: %v", err)
	}
	return nil
}

// raise a Lua error if the display returned an error
func check(L *lua.LState, err error) int {
	if err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func blendMode(L *lua.LState, n int) spec.BlendMode {
	switch b := L.OptString(n, "copy"); b {
	case "copy":
		return spec.BlendCopy
	case "depth":
		return spec.BlendDepth
	case "blend":
		return spec.BlendBlend
	default:
		L.ArgError(n, "unknown blend mode "+b)
	}
	return spec.BlendCopy
}

func (s *Script) luaSprite(L *lua.LState) int {
	i := L.CheckInt(1)
	idx := L.CheckInt(2)
	x := L.CheckInt(3)
	y := L.CheckInt(4)
	blend := blendMode(L, 5)
	return check(L, s.disp.SetSprite(i, idx, x, y, blend))
}

func (s *Script) luaMove(L *lua.LState) int {
	return check(L, s.disp.MoveSprite(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)))
}

func (s *Script) luaClear(L *lua.LState) int {
	return check(L, s.disp.ClearSprite(L.CheckInt(1)))
}

func (s *Script) luaOffset(L *lua.LState) int {
	return check(L, s.disp.SetFrameDataAddressOffset(L.CheckInt(1), int32(L.CheckInt(2))))
}

func (s *Script) luaHeartbeat(L *lua.LState) int {
	s.disp.EnableHeartbeat(L.CheckBool(1))
	return 0
}
