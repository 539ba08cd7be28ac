//go:build wasm

// This file holds the actual pp_* host exports (spec.md §6). It only builds
// for GOARCH=wasm (js/wasm and wasip1/wasm targets); the underlying logic
// lives in state.go so it can be exercised by ordinary `go test` on any
// platform.
package wasmexports

//go:wasmexport pp_contract_version
func ppContractVersionExport() int32 {
	return contractVersionImpl()
}

//go:wasmexport pp_init
func ppInitExport(apiVersion int32, apiFeatures int64, screenW, screenH int32) int32 {
	return initImpl(apiVersion, apiFeatures, screenW, screenH)
}

//go:wasmexport pp_tick
func ppTickExport(nowMs int32) int32 {
	return tickImpl(nowMs)
}

//go:wasmexport pp_on_gesture
func ppOnGestureExport(kind, x, y, dx, dy, durationMs, nowMs, flags int32) int32 {
	return onGestureImpl(kind, x, y, dx, dy, durationMs, nowMs, flags)
}

//go:wasmexport pp_alloc
func ppAllocExport(length int32) int32 {
	return allocImpl(length)
}

//go:wasmexport pp_free
func ppFreeExport(ptr, length int32) {
	freeImpl(ptr, length)
}
