// Package plugin loads native plugins into the host process and dispatches
// calls into the functions they publish.
//
// A plugin exports a Declaration under DeclarationSymbol. Manager.Load opens
// the library, checks the declared ABI version, hands the plugin a Registrar
// and publishes whatever it registered in one step. Manager.Call looks a
// function up and runs it; the FunctionProxy it goes through holds a
// reference on the Library that supplied the code, so the module stays
// mapped for as long as any function from it can still run.
//
// Files:
//
//   - types.go: Value, Context, Callable and Registrar
//   - declaration.go: the exported declaration record and its checks
//   - library.go: reference counted library handle
//   - proxy.go: FunctionProxy
//   - registrar.go: collection of one registration call
//   - manager.go: Load, Call and Unload
//   - lifecycle.go: LoadAll, LoadDir, UnloadLibrary and Close
//   - info.go: Help, Functions and Libraries
//   - adapter.go, protobuf_adapter.go: typed call adapters
//   - cabi_*.go: declarations exported by C ABI libraries
package plugin
