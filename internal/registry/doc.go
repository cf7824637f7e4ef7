/*
Package registry resolves addon names to their install locations and holds the
capability table through which addons expose an API or tasks to each other.

# Lookup

Find searches the configured roots in order and returns the first directory
named after the addon. Every answer, including "not installed", is cached for
the lifetime of the Registry: an addon installed after its first lookup is not
observed until a new Registry is built.

# Capabilities

Addons cannot be looked up by symbol name at runtime, so each addon that
exposes an API or tasks registers factories once at startup:

	reg.MustRegister("twitter", registry.Capabilities{
		API: func(id addon.Identity, manifest document.Mapping) (any, error) {
			return twitter.NewAPI(id, manifest), nil
		},
	})

GetAPI then requires both the manifest file api.<name>.yaml in the addon
directory and a registered API factory.
*/
package registry
