/*
Package addon defines the identity of an addon and the error taxonomy shared by
every framework service.

# Identity

An addon is known by a short unique name ("karma", "twitter") and by the kind of
unit that is asking for services (plugin, fieldtype, hooks, tasks, api, module).
The pair is derived from a declared identifier such as "Plugin_karma":

	name, typ, err := addon.ParseIdentifier("Plugin_karma")
	// name == "karma", typ == addon.TypePlugin

# Errors

Typed errors carry the addon name or path involved and unwrap to a sentinel so
callers can use either errors.As or errors.Is:

	if errors.Is(err, addon.ErrNotInstalled) { ... }

	var nf *addon.NotInstalledError
	if errors.As(err, &nf) { log(nf.Addon) }
*/
package addon
