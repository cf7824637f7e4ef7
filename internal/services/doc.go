/*
Package services builds the bundle of framework services one addon receives.

A Factory is created once per process and holds the long-lived pieces: the
addon registry, the installation layout, the logger and the metrics. A
Request holds what lives for one HTTP request: the visitor session, the cookie
jar, the shared blink map and the per-addon cookie caches. Factory.For
combines the two for a given addon identity:

	req := services.NewRequest(sess, jar)
	svc, err := factory.ForDeclared("Plugin_karma", req)
	svc.Cache.Put("votes/entry-1", []byte("12"))
	token, _ := svc.Tokens.Create()

Every namespaced store in a Services value is keyed by the addon name, so
addons cannot read or overwrite each other's data. The Blink map is the one
deliberate exception.
*/
package services
