// Package templating renders dot files, defaults files, selector attributes
// and the install shell wrapper with HCL template syntax.
//
// Templates are plain text with ${...} interpolations and %{if}/%{for}
// directives. The variables in scope are:
//
//	name     virtual path of the item being resolved
//	os       current operating system ("linux", "darwin", "windows")
//	env      environment variables, e.g. ${env.HOME}
//	whoami   username, realname, hostname, platform, arch, distro
//	dirs     home, config, cache
//	config   dotfiles, shell_command, variables
//
// A literal "${" is written as "$${".
package templating
