package types

// AliasFile is the on-disk alias table. Each value is a whitespace
// separated list of build targets or other alias names:
//
//	alias:
//	  app: //app:app
//	  tools: //tools:lint //tools:fmt
//	  everything: app tools
type AliasFile struct {
	Alias map[string]string `yaml:"alias"`
}
