// Package config provides user configuration management for the PetPal client.
//
// Settings live in a YAML file whose location follows OS conventions:
//   - Linux: $XDG_CONFIG_HOME/petpal/config.yaml or $HOME/.config/petpal/config.yaml
//   - macOS: $HOME/.config/petpal/config.yaml
//   - Windows: %LOCALAPPDATA%\petpal\config.yaml
//
// The file holds client settings only: the service address, timeouts, the
// starting age group and dietary selection, theme, recipe batch size and
// logging. Session data is never persisted.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := petpalapi.NewClientWithURL(settings.API.BaseURL)
//
// # Example File
//
//	version: 1
//	api:
//	    base_url: https://priaansh-petpal.hf.space
//	    request_timeout: 0s
//	    image_timeout: 1m0s
//	preferences:
//	    age_group: adult
//	    dietary: [grain-free]
//	    dark_mode: false
//	    recipe_count: 3
//	logging:
//	    level: debug
//
// # Thread Safety
//
// Load uses sync.Once; writes are serialized by a mutex and are atomic.
package config
