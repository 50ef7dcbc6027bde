package urls

// Remote service endpoints and project documentation

// ServiceHost is the host name of the hosted PetPal inference service
const ServiceHost = "priaansh-petpal.hf.space"

// ServiceURL is the default base URL every API request is sent to.
const ServiceURL = "https://" + ServiceHost

// APIDocs is the interactive API reference served by the remote itself,
// listing every endpoint with its form fields and response schema.
const APIDocs = ServiceURL + "/docs"

// Repository is the project home page
const Repository = "https://github.com/muurk/petpal"

// TroubleshootingGuide provides solutions to common connection and
// timeout issues when talking to the hosted service.
const TroubleshootingGuide = Repository + "#troubleshooting"

// ConfigReference documents every key in config.yaml
const ConfigReference = Repository + "#configuration"
