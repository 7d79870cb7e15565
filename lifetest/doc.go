/*
Package lifetest provides mocked implementations of the core
interfaces, useful when testing extensions.
*/
package lifetest
