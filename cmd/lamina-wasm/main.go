//go:build js && wasm

// Command lamina-wasm exposes the embedding bridge to JavaScript. Each
// exported function takes and returns only primitives, matching what the
// JS/WASM boundary can marshal.
package main

import (
	"syscall/js"

	"github.com/lamina-lang/lamina/pkgs/bridge"
)

func main() {
	b := bridge.New()

	js.Global().Set("laminaExecute", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 1 {
			return "Error: expected 1 argument"
		}
		return b.Execute(args[0].String())
	}))

	js.Global().Set("laminaEval", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 1 {
			return "Error: expected 1 argument"
		}
		return b.Eval(args[0].String())
	}))

	js.Global().Set("laminaSetVariable", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 2 {
			return nil
		}
		b.SetVariable(args[0].String(), args[1].Float())
		return nil
	}))

	js.Global().Set("laminaSetStringVariable", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 2 {
			return nil
		}
		b.SetStringVariable(args[0].String(), args[1].String())
		return nil
	}))

	js.Global().Set("laminaGetVariable", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 1 {
			return "Error: expected 1 argument"
		}
		return b.GetVariable(args[0].String())
	}))

	js.Global().Set("laminaReset", js.FuncOf(func(this js.Value, args []js.Value) any {
		b.Reset()
		return nil
	}))

	js.Global().Set("laminaVersion", js.FuncOf(func(this js.Value, args []js.Value) any {
		return bridge.Version()
	}))

	// Block forever; the exported functions are the program.
	select {}
}
