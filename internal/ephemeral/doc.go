/*
Package ephemeral provides the short-lived stores an addon sees during a
request: Session, Flash, Cookies and Blink.

Session, Flash and Cookies prefix every key with the addon name, so two addons
never see each other's values:

	session  namespace "_addon_data", addon name, key
	flash    "_addon_<name>_<key>"
	cookie   "<name>__<key>"

Blink is one map shared by every addon in a request and is cleared with the
request. Use it to hand data from one addon to another within a render.
*/
package ephemeral
