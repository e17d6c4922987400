package sync

// CatalogDescriptor identifies one upstream catalog and where its items land
// in the store. Descriptors are built once at startup and never change for
// the process lifetime.
type CatalogDescriptor struct {
	// Name is the human-readable catalog identifier used in logs and metrics
	Name string

	// Endpoint is the upstream relative path for this catalog
	Endpoint string

	// Kind is the logical collection in the store, the catalog_kind column
	Kind string
}

// DefaultRegistry returns the descriptors of the seven basic catalogs synced
// by the standard job. The registry is passed explicitly to the orchestrator
// so tests can substitute a smaller one.
func DefaultRegistry() []CatalogDescriptor {
	return []CatalogDescriptor{
		{Name: "Finalidades", Endpoint: "/finalidades", Kind: "finalidades"},
		{Name: "Instrumentos de Ayuda", Endpoint: "/instrumentos", Kind: "instrumentos_ayuda"},
		{Name: "Tipos de Beneficiario", Endpoint: "/beneficiarios", Kind: "tipos_beneficiario"},
		{Name: "Actividades", Endpoint: "/actividades", Kind: "actividades"},
		{Name: "Reglamentos UE", Endpoint: "/reglamentos", Kind: "reglamentos_ue"},
		{Name: "Sectores de Producto", Endpoint: "/sectores", Kind: "sectores_producto"},
		{Name: "Catálogo de Objetivos", Endpoint: "/objetivos", Kind: "objetivos"},
	}
}
