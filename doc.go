/*
Package undokit records changes as commands and undoes or redoes them in groups.

A command is anything with Apply and Revert. Commands pushed together form one
group: a single Undo reverts all of them and a single Redo re-applies them.
The history keeps at most a configured number of groups and silently drops
the oldest ones beyond that.

# Usage

	car := map[string]string{"value": "$15,000"}

	h := undokit.New()
	cmd, _ := undokit.SetValue(car, "$20,000")
	h.Push(cmd)  // car["value"] == "$20,000"
	h.Undo()     // car["value"] == "$15,000"
	h.Redo()     // car["value"] == "$20,000"

Commands over structs, Redis hashes and any custom Apply/Revert pair live in
the pkg/command and pkg/adapters packages. Hosts that edit shared documents
(the undokit CLI and HTTP API) serialise access through pkg/session.
*/
package undokit
