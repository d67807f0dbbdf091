package program

import "github.com/deepnoodle-ai/settix/ast"

// settingsCall is the well-known call that declares a plugin's settings.
const settingsCall = "definePluginSettings"

// LocateSettings returns the object literal passed to the file's settings
// declaration call, or nil if the file declares no settings.
//
// The call may appear as a top-level declaration initializer, behind
// "export default", or nested inside a definePlugin({...}) argument; the
// first occurrence in source order wins.
func (f *File) LocateSettings() *ast.Object {
	var found *ast.Object
	ast.Inspect(f.program, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		call, ok := n.(*ast.Call)
		if !ok {
			return true
		}
		ident, ok := ast.Unwrap(call.Fun).(*ast.Ident)
		if !ok || ident.Name != settingsCall {
			return true
		}
		if len(call.Args) == 0 {
			return true
		}
		if obj, ok := ast.Unwrap(call.Args[0]).(*ast.Object); ok {
			found = obj
			return false
		}
		return true
	})
	return found
}
