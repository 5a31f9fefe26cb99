// Package plugintest holds tests that load real shared objects built from
// example/plugins. They live outside package plugin so that the plugin
// package linked into the test binary is the same build the shared objects
// were linked against.
package plugintest
