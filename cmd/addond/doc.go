// Command addond serves the addon framework over HTTP.
//
// Configuration comes from the environment (see internal/infrastructure/config);
// the flags below override it.
//
// Usage:
//
//	addond [-port 8000] [-host 0.0.0.0] [-base /srv/site] [-dev]
package main
