// Package di wires the lifecycle manager into a samber/do container:
// component handles come from named providers, the manager and its
// collaborators are services shut down with the injector.
package di
