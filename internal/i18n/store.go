// File: internal/i18n/store.go
package i18n

// DefaultLanguage is used when the requested language is unknown.
const DefaultLanguage = "es"

// translations holds the UI strings per language. Missing keys resolve to
// the key itself so untranslated strings stay visible instead of blank.
var translations = map[string]map[string]string{
	"es": {
		// Nav
		"nav.home":        "Inicio",
		"nav.properties":  "Propiedades",
		"nav.contact":     "Contacto",
		"nav.agent_login": "Acceso Agentes",

		// Hero
		"hero.title.prefix": "Encuentra tu hogar",
		"hero.title.suffix": "ideal",
		"hero.subtitle":     "Explora nuestra exclusiva colección de casas, apartamentos y villas en las mejores ubicaciones.",
		"hero.cta":          "Ver Propiedades",

		// Feature section
		"featured.title":    "Propiedades Destacadas",
		"featured.subtitle": "Una selección exclusiva de nuestras mejores oportunidades.",
		"featured.view_all": "Ver todas las propiedades",

		// Why choose us
		"why.title":  "¿Por qué elegir Conesa Estates?",
		"why.point1": "Experiencia de más de 20 años en el mercado.",
		"why.point2": "Asesoramiento personalizado de principio a fin.",
		"why.point3": "Tecnología de vanguardia para encontrar su hogar.",
		"why.point4": "Red exclusiva de contactos y propiedades off-market.",
		"why.cta":    "Contáctanos hoy",

		// Properties page
		"properties.title":              "Nuestras Propiedades",
		"properties.subtitle":           "Explore nuestro catálogo completo de inmuebles disponibles para venta y alquiler.",
		"properties.search_placeholder": "Buscar por ubicación, título...",
		"properties.filter_all":         "Todos",
		"properties.no_results":         "No se encontraron propiedades.",
		"properties.clear_filters":      "Limpiar filtros",

		// Contact page
		"contact.title":      "Contáctanos",
		"contact.subtitle":   "Estamos aquí para responder a todas sus preguntas.",
		"contact.form_title": "Envíenos un mensaje",
		"contact.name":       "Nombre",
		"contact.phone":      "Teléfono",
		"contact.message":    "Mensaje",
		"contact.send":       "Enviar Mensaje",
		"contact.info_title": "Información de Contacto",
		"contact.office":     "Oficina Central",

		// Detail view
		"detail.back":            "Volver",
		"detail.about":           "Sobre esta propiedad",
		"detail.features":        "Características",
		"detail.beds":            "Habitaciones",
		"detail.baths":           "Baños",
		"detail.area":            "Área",
		"detail.price_label":     "Precio de venta",
		"detail.request_visit":   "Solicitar Visita",
		"detail.contact_agent":   "Contactar Agente",
		"detail.chat_help":       "¿Tienes preguntas? Usa nuestro chat de IA.",
		"detail.inquiry_message": "Hola, me interesa la propiedad {title} ({price}). ¿Podrían darme más información?",

		// Footer
		"footer.explore": "Explorar",
		"footer.rights":  "© 2024 Conesa Estates. Todos los derechos reservados.",

		// Dashboard
		"dashboard.title":        "Panel de Agentes",
		"dashboard.subtitle":     "Gestión de Inventario",
		"dashboard.new_property": "Nueva Propiedad",
		"dashboard.no_properties": "Sin propiedades",
		"dashboard.create_first": "Crear primera propiedad",
		"dashboard.logout":       "Cerrar Sesión",
		"dashboard.sure_delete":  "¿Estás seguro de que quieres eliminar esta propiedad?",

		// Property types
		"type.House":     "Casa",
		"type.Apartment": "Departamento",
		"type.Villa":     "Villa",
		"type.Condo":     "Condominio",
		"type.Land":      "Terreno",
	},
	"en": {
		// Nav
		"nav.home":        "Home",
		"nav.properties":  "Properties",
		"nav.contact":     "Contact",
		"nav.agent_login": "Agent Login",

		// Hero
		"hero.title.prefix": "Find your dream",
		"hero.title.suffix": "home",
		"hero.subtitle":     "Explore our exclusive collection of houses, apartments, and villas in top locations.",
		"hero.cta":          "View Properties",

		// Feature section
		"featured.title":    "Featured Properties",
		"featured.subtitle": "An exclusive selection of our best opportunities.",
		"featured.view_all": "View all properties",

		// Why choose us
		"why.title":  "Why Choose Conesa Estates?",
		"why.point1": "Over 20 years of market experience.",
		"why.point2": "Personalized advice from start to finish.",
		"why.point3": "Cutting-edge technology to find your home.",
		"why.point4": "Exclusive network of contacts and off-market properties.",
		"why.cta":    "Contact us today",

		// Properties page
		"properties.title":              "Our Properties",
		"properties.subtitle":           "Explore our complete catalog of properties available for sale and rent.",
		"properties.search_placeholder": "Search by location, title...",
		"properties.filter_all":         "All",
		"properties.no_results":         "No properties found.",
		"properties.clear_filters":      "Clear filters",

		// Contact page
		"contact.title":      "Contact Us",
		"contact.subtitle":   "We are here to answer all your questions.",
		"contact.form_title": "Send us a message",
		"contact.name":       "Name",
		"contact.phone":      "Phone",
		"contact.message":    "Message",
		"contact.send":       "Send Message",
		"contact.info_title": "Contact Information",
		"contact.office":     "Head Office",

		// Detail view
		"detail.back":            "Back",
		"detail.about":           "About this property",
		"detail.features":        "Features",
		"detail.beds":            "Beds",
		"detail.baths":           "Baths",
		"detail.area":            "Area",
		"detail.price_label":     "Sale Price",
		"detail.request_visit":   "Request Visit",
		"detail.contact_agent":   "Contact Agent",
		"detail.chat_help":       "Questions? Use our AI chat.",
		"detail.inquiry_message": "Hello, I am interested in the property {title} ({price}). Could you give me more information?",

		// Footer
		"footer.explore": "Explore",
		"footer.rights":  "© 2024 Conesa Estates. All rights reserved.",

		// Dashboard
		"dashboard.title":        "Agent Dashboard",
		"dashboard.subtitle":     "Inventory Management",
		"dashboard.new_property": "New Property",
		"dashboard.no_properties": "No properties",
		"dashboard.create_first": "Create first property",
		"dashboard.logout":       "Logout",
		"dashboard.sure_delete":  "Are you sure you want to delete this property?",

		// Property types
		"type.House":     "House",
		"type.Apartment": "Apartment",
		"type.Villa":     "Villa",
		"type.Condo":     "Condo",
		"type.Land":      "Land",
	},
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{"es", "en"}
}

// IsSupported reports whether lang has a translation table.
func IsSupported(lang string) bool {
	_, ok := translations[lang]
	return ok
}

// Bundle returns the full translation table for a language, falling back to
// the default language for unknown codes.
func Bundle(lang string) (string, map[string]string) {
	if table, ok := translations[lang]; ok {
		return lang, table
	}
	return DefaultLanguage, translations[DefaultLanguage]
}

// Lookup resolves one key. Unknown languages fall back to the default
// language; unknown keys resolve to the key itself.
func Lookup(lang, key string) string {
	_, table := Bundle(lang)
	if value, ok := table[key]; ok {
		return value
	}
	return key
}
