package llm

import (
	"fmt"
	"strings"

	"github.com/mcatarino/order-extractor/internal/catalog"
)

// pageJSONTemplate is the response shape the extraction prompts request.
const pageJSONTemplate = `{
  "products": [
    {
      "name": "Nome do produto",
      "material_code": "Código do material",
      "category": "Categoria",
      "model": "Modelo",
      "composition": "100% algodão",
      "colors": [
        {
          "color_code": "807",
          "color_name": "Azul",
          "sizes": [
            {"size": "S", "quantity": 1},
            {"size": "M", "quantity": 2}
          ],
          "unit_price": 79.00,
          "sales_price": 119.00,
          "subtotal": 474.00
        }
      ],
      "total_price": 474.00
    }
  ],
  "order_info": {
    "total_pieces": 122,
    "total_value": 9983.00
  }
}`

// BuildFirstPagePrompt composes the extraction instructions for page one of
// a document, embedding the context analysis and the category taxonomy.
func BuildFirstPagePrompt(docContext string, page, totalPages int) string {
	var b strings.Builder
	b.WriteString("# INSTRUÇÕES PARA EXTRAÇÃO DE PRODUTOS\n\n")
	b.WriteString("Você é um especialista em extrair dados de produtos de documentos comerciais.\n")
	fmt.Fprintf(&b, "Esta é a página %d de %d.\n\n", page, totalPages)
	b.WriteString(docContext)
	b.WriteString("\n\n## Tarefa de Extração\n")
	b.WriteString("Analise esta página e extraia todas as informações de produtos presentes, seguindo as orientações de layout e estrutura descritas acima.\n\n")
	writeFieldList(&b)
	b.WriteString("\n## Regras Críticas:\n")
	b.WriteString("1. Extraia APENAS o que está visível nesta página específica\n")
	b.WriteString("2. Inclua APENAS tamanhos com quantidades explicitamente indicadas\n")
	b.WriteString("3. NÃO inclua tamanhos com células vazias ou quantidade zero\n")
	b.WriteString("4. Utilize NULL para campos não encontrados, mas mantenha a estrutura JSON\n")
	b.WriteString("5. Preste atenção especial a como as cores são organizadas conforme as instruções\n")
	b.WriteString("6. NÃO invente dados ou adicione produtos que não estão claramente na imagem\n")
	b.WriteString("\n## Formato de Resposta\nRetorne os dados extraídos em formato JSON estrito:\n\n")
	b.WriteString(pageJSONTemplate)
	return b.String()
}

// BuildAdditionalPagePrompt composes the instructions for pages after the
// first; the count of products already extracted feeds forward so the model
// does not re-extract them.
func BuildAdditionalPagePrompt(docContext string, page, totalPages, previousProducts int) string {
	var b strings.Builder
	b.WriteString("# INSTRUÇÕES PARA EXTRAÇÃO DE PRODUTOS\n\n")
	b.WriteString("Você é um especialista em extrair dados de produtos de documentos comerciais.\n")
	fmt.Fprintf(&b, "Esta é a página %d de %d.\n\n", page, totalPages)
	b.WriteString(docContext)
	b.WriteString("\n\n## Progresso da Extração\n")
	fmt.Fprintf(&b, "Já extraímos %d produtos das páginas anteriores.\n\n", previousProducts)
	b.WriteString("## Tarefa de Extração\n")
	b.WriteString("Analise APENAS esta página atual e extraia produtos ADICIONAIS que não foram extraídos anteriormente.\n\n")
	writeFieldList(&b)
	b.WriteString("\n## Regras Críticas:\n")
	b.WriteString("1. Extraia APENAS o que está visível nesta página específica\n")
	b.WriteString("2. NÃO tente extrair produtos já processados das páginas anteriores\n")
	b.WriteString("3. Inclua APENAS tamanhos com quantidades explicitamente indicadas\n")
	b.WriteString("4. NÃO inclua tamanhos com células vazias ou quantidade zero\n")
	b.WriteString("5. Utilize NULL para campos não encontrados, mas mantenha a estrutura JSON\n")
	b.WriteString("6. IGNORE seções de resumo ou totais - extraia apenas produtos detalhados\n")
	b.WriteString("\n## Formato de Resposta\nRetorne os dados extraídos em formato JSON estrito:\n\n")
	b.WriteString(pageJSONTemplate)
	b.WriteString("\n\nSe também existirem informações adicionais sobre o pedido nesta página (como total geral, condições de pagamento, etc.), inclua-as no objeto order_info.")
	return b.String()
}

func writeFieldList(b *strings.Builder) {
	b.WriteString("Para cada produto, extraia:\n")
	b.WriteString("- Nome do produto\n")
	b.WriteString("- Código do material\n")
	fmt.Fprintf(b, "- Categoria do produto - DEVE ser em PORTUGUÊS, usando APENAS uma das seguintes categorias: %s\n",
		strings.Join(catalog.Categories, ", "))
	b.WriteString("- Modelo\n")
	b.WriteString("- Composição (se disponível) - Deve ser traduzida para Português - Portugal\n")
	b.WriteString("- Para CADA COR do produto:\n")
	b.WriteString("  * Código da cor\n")
	b.WriteString("  * Nome da cor (se disponível)\n")
	b.WriteString("  * Tamanhos disponíveis e suas quantidades\n")
	b.WriteString("  * Preço unitário\n")
	b.WriteString("  * Preço de venda (se disponível)\n")
	b.WriteString("  * Subtotal para esta cor\n")
}

// colorExamples gives the model worked multilingual groupings for the most
// confusable codes.
var colorExamples = []string{
	`001: Branco (white, blanc, bianco, branco)`,
	`002: Vermelho (red, rouge, rosso, vermelho)`,
	`003: Verde (green, vert, verde, open green, medium green)`,
	`004: Castanho (brown, marrom, castanho, chocolate)`,
	`005: Amarelo (yellow, jaune, giallo, amarelo)`,
	`006: Lilás (lilac, lilas, viola, lilás)`,
	`007: Rosa (pink, rose, rosa, light pink, pastel pink)`,
	`008: Azul (blue, bleu, blu, azul, navy, dark blue, light blue, pastel blue)`,
	`009: Laranja (orange, arancione, laranja)`,
	`010: Preto (black, noir, nero, preto)`,
	`011: Cinza (gray, grey, gris, grigio, cinza, charcoal, cinzento, slate, ash)`,
	`012: Bege (beige, natural, nude, bege, open beige, cream, ivory)`,
}

// BuildColorPrompt composes the semantic color classification prompt for one
// extracted color name.
func BuildColorPrompt(colorName string) string {
	var available []string
	for code := 1; code <= 30; code++ {
		c := fmt.Sprintf("%03d", code)
		available = append(available, fmt.Sprintf("%s: %s", c, catalog.ColorName(c)))
	}

	var b strings.Builder
	b.WriteString("# ESPECIALISTA EM MAPEAMENTO DE CORES\n\n")
	fmt.Fprintf(&b, "Você é um especialista em cores que deve analisar o nome %q e encontrar a cor mais adequada.\n\n", colorName)
	b.WriteString("## ANÁLISE SEMÂNTICA DE CORES:\n")
	b.WriteString(strings.Join(colorExamples, "\n"))
	b.WriteString("\n\n## CORES DISPONÍVEIS:\n")
	b.WriteString(strings.Join(available, "\n"))
	b.WriteString("\n\n## REGRAS DE ANÁLISE SEMÂNTICA:\n")
	b.WriteString("1. **Tons de Cinza**: \"Charcoal\", \"Slate\", \"Ash\", \"Graphite\" → sempre \"011: Cinza\"\n")
	b.WriteString("2. **Tons de Azul**: qualquer variação de azul → sempre \"008: Azul\"\n")
	b.WriteString("3. **Tons de Verde**: qualquer variação de verde → sempre \"003: Verde\"\n")
	b.WriteString("4. **Tons de Rosa**: qualquer variação de rosa/pink → sempre \"007: Rosa\"\n")
	b.WriteString("5. **Tons Naturais**: \"Natural\", \"Nude\", \"Cream\" → sempre \"012: Bege\"\n\n")
	b.WriteString("## EXEMPLOS CRÍTICOS:\n")
	b.WriteString("- \"Charcoal\" = cinza escuro → código \"011\"\n")
	b.WriteString("- \"Navy\" = azul marinho → código \"008\"\n")
	b.WriteString("- \"Natural\" = cor natural/bege → código \"012\"\n\n")
	fmt.Fprintf(&b, "## COR A ANALISAR: %q\n\n", colorName)
	b.WriteString("Analise semanticamente esta cor e retorne:\n")
	b.WriteString("```json\n{\n\"code\": \"XXX\",\n\"name\": \"Nome Português\",\n\"confidence\": \"high\",\n\"reasoning\": \"Explicação da análise semântica\"\n}\n```\n\n")
	b.WriteString("IMPORTANTE: Analise o SIGNIFICADO da cor, não apenas palavras-chave!")
	return b.String()
}

// BuildContextPrompt composes the first-page document analysis prompt. The
// extracted PDF text rides along with the page image so the model can read
// letterheads that render poorly.
func BuildContextPrompt(req ContextRequest) string {
	var b strings.Builder
	b.WriteString("# ANÁLISE DE DOCUMENTO COMERCIAL\n\n")
	b.WriteString("Você é um especialista em documentos comerciais de moda (notas de encomenda, faturas, confirmações de pedido).\n")
	b.WriteString("Analise a primeira página deste documento e identifique as informações gerais do pedido.\n\n")
	if req.Filename != "" {
		fmt.Fprintf(&b, "Nome do ficheiro: %s\n\n", req.Filename)
	}
	if text := strings.TrimSpace(req.PDFText); text != "" {
		b.WriteString("## Texto extraído do documento (pode conter erros de OCR):\n")
		if len(text) > 4000 {
			b.WriteString(text[:4000])
			b.WriteString("\n…(truncado)")
		} else {
			b.WriteString(text)
		}
		b.WriteString("\n\n")
	}
	b.WriteString("## Identifique:\n")
	b.WriteString("- Tipo de documento (nota de encomenda, fatura, confirmação)\n")
	b.WriteString("- Fornecedor (empresa que vende)\n")
	b.WriteString("- Marca dos produtos\n")
	b.WriteString("- Cliente (empresa que compra)\n")
	b.WriteString("- Número de referência do pedido\n")
	b.WriteString("- Data do documento\n")
	b.WriteString("- Temporada/estação (ex: FW25, SS26)\n")
	b.WriteString("- Como o layout organiza produtos, cores, tamanhos e preços (layout_info)\n\n")
	b.WriteString("## Formato de Resposta\nRetorne APENAS JSON estrito:\n\n")
	b.WriteString(`{
  "document_type": "nota de encomenda",
  "supplier": "Nome do fornecedor",
  "brand": "Marca",
  "customer": "Cliente",
  "reference_number": "12345",
  "date": "2025-01-31",
  "season": "FW25",
  "layout_info": "Descrição de como a tabela de produtos está organizada"
}`)
	b.WriteString("\n\nSe não conseguir identificar o fornecedor, use exatamente \"Fornecedor não identificado\". Se não conseguir identificar a marca, use exatamente \"Marca não identificada\".")
	return b.String()
}
