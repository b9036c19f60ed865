//go:build aidebug

package layer

const debugPrintSpecs = true
