// Package hypixel fetches player statistics from the Hypixel public API and
// validates API keys.
//
// Player payloads are large and loosely structured, so fields are read with
// gjson paths and absent values become zero instead of failing the decode.
// Credential holds the shared key; the fetch pipeline invalidates it when
// the API answers 403.
package hypixel
