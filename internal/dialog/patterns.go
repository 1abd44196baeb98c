package dialog

import (
	"regexp"
	"strconv"
	"strings"

	"tiendabot/internal/match"
)

// Phrase patterns are matched against normalized text (lowercase, no
// accents, no punctuation).
var (
	reHandoffRequest = regexp.MustCompile(`(hablar|comunicar|charlar) .*(humano|persona|alguien|encargado|duenio|dueno)|atencion humana|sos un bot|persona real`)

	reGreeting = regexp.MustCompile(`^(hola|buenas|buen dia|buenos dias|buenas tardes|buenas noches)( .{0,20})?$`)
	reHours    = regexp.MustCompile(`horario|a que hora|abren|cierran|abierto|estan atendiendo`)
	reLocation = regexp.MustCompile(`direccion|ubicacion|donde (estan|queda|es el local)|como llego`)
	rePayment  = regexp.MustCompile(`(como|medios|formas) .*pag|aceptan|transferencia|mercado pago|tarjeta de (credito|debito)`)
	reContact  = regexp.MustCompile(`contacto|telefono|celular|numero de`)
	reListing  = regexp.MustCompile(`catalogo|lista de productos|que venden|que productos|que tenes para vender`)
	reStockQ   = regexp.MustCompile(`^(hay|tienen|queda|quedan) stock de (.+)$|^stock de (.+)$`)
	reHistory  = regexp.MustCompile(`mis pedidos|pedidos anteriores|ultimo pedido|historial`)

	reViewCart    = regexp.MustCompile(`^(ver )?(carrito|mi pedido|el pedido|pedido actual)$`)
	reConfirmCart = regexp.MustCompile(`^(confirmar|confirmo|finalizar|cerrar|terminar)( (el )?(pedido|compra|carrito))?$`)
	reCancelCart  = regexp.MustCompile(`^cancelar( (el )?(pedido|compra|carrito|todo))?$`)
	reRemoveItem  = regexp.MustCompile(`^(sacar|quitar|eliminar|borrar) (el |la |item )?(\d+)$`)

	reCustomCV     = regexp.MustCompile(`curriculum|\bcv\b|hacer mi cv`)
	reCustomInvite = regexp.MustCompile(`invitacion(es)?( de| para)?( cumple(anios)?| fiesta| evento)?`)
	reCustomCards  = regexp.MustCompile(`tarjetas? personal(es)?|tarjetas? de presentacion`)

	rePhoto = regexp.MustCompile(`^(tenes |hay |mandame |pasame |mostrame )?(una |la |alguna )?(foto|fotos|imagen|imagenes)( .{0,30})?$`)

	reOffTopic = regexp.MustCompile(`fortnite|futbol|partido|pelicula|netflix|jugamos|juego|jaja|jsjs|meme|asado|birra|salimos`)

	// Words that suggest the message at least relates to shopping; only
	// these earn the generic fallback menu, anything else gets silence.
	reBusiness = regexp.MustCompile(`precio|comprar|vender|stock|pedido|producto|cuanto|tenes|tienen|quiero|necesito|busco|encargar|presupuesto|vale|sale`)
)

var cancelWords = map[string]bool{
	"cancelar": true, "cancela": true, "dejalo": true, "nada": true,
	"olvidalo": true, "no importa": true, "ninguno": true, "ninguna": true,
}

var yesPhrases = []string{"si", "dale", "ok", "bueno", "listo", "claro", "obvio", "perfecto", "genial", "si quiero", "esta bien"}
var noPhrases = []string{"no", "nop", "mejor no", "asi no"}

// isYes fuzzily detects an affirmative reply. Tokens are compared after
// collapsing repeated letters, with an edit-distance tolerance proportional
// to the known token's length so "siii" and "sip" pass without short tokens
// over-matching.
func isYes(text string, tolerance float64) bool {
	return matchesPhraseSet(text, yesPhrases, tolerance)
}

// isNo fuzzily detects a negative reply.
func isNo(text string, tolerance float64) bool {
	return matchesPhraseSet(text, noPhrases, tolerance)
}

func matchesPhraseSet(text string, phrases []string, tolerance float64) bool {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return false
	}
	for _, p := range phrases {
		if len(strings.Fields(p)) > 1 {
			// Multiword phrases must match exactly.
			if text == p {
				return true
			}
			continue
		}
		if len(tokens) == 1 &&
			match.WithinTolerance(match.CollapseRepeats(tokens[0]), match.CollapseRepeats(p), tolerance) {
			return true
		}
	}
	return false
}

// isCancel detects an explicit cancel phrase for open disambiguations.
func isCancel(text string) bool {
	return cancelWords[text]
}

var wordNumbers = map[string]int{
	"un": 1, "una": 1, "uno": 1, "dos": 2, "tres": 3, "cuatro": 4,
	"cinco": 5, "seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10,
	"docena": 12, "media docena": 6,
}

// parseQuantity extracts the quantity implied by a message ("quiero 2
// cuadernos", "tres globos"). Defaults to one.
func parseQuantity(text string) int {
	for _, tok := range strings.Fields(text) {
		if n, err := strconv.Atoi(tok); err == nil && n > 0 && n < 1000 {
			return n
		}
		if n, ok := wordNumbers[tok]; ok {
			return n
		}
	}
	return 1
}

// parseOrdinal reads a bare number reply used to pick a candidate.
func parseOrdinal(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}
