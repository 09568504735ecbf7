// Command bestsellers scrapes the weekly best-seller archive into an
// ordered per-week result set and prints it with run timing.
package main
