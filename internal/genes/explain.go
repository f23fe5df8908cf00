package genes

import (
	"fmt"
	"strings"
)

var geneTypeInfo = map[string]string{
	"protein_coding": "This gene provides instructions for making a protein, which plays a specific role in your body.",
	"pseudogene":     "This is a pseudogene, meaning it resembles a gene but is typically nonfunctional.",
	"lncrna":         "This gene does not code for a protein but produces long non-coding RNA, which can regulate gene expression.",
	"ncrna":          "This gene does not code for a protein but produces non-coding RNA, which can regulate gene expression.",
	"mirna":          "This gene produces microRNA, a short RNA that silences other genes.",
	"trna":           "This gene makes transfer RNA (tRNA), which helps assemble proteins from amino acids.",
	"rrna":           "This gene produces ribosomal RNA (rRNA), a key part of ribosomes, the protein factories of cells.",
	"snrna":          "This gene produces small nuclear RNA involved in RNA processing.",
	"snorna":         "This gene produces small nucleolar RNA that guides chemical changes to other RNAs.",
	"misc_rna":       "This gene produces other types of RNA with various cellular functions.",
}

const unknownGeneType = "This gene has a specialized role in cellular function."

var humanChromosomeInfo = map[string]string{
	"1":  "Chromosome 1 is the largest and contains many genes linked to brain development and cancer.",
	"2":  "Chromosome 2 includes genes involved in sensory perception and neurological function.",
	"3":  "Chromosome 3 is linked to vision, hearing, and immune system regulation.",
	"4":  "Chromosome 4 includes genes related to skeletal development and Huntington's disease.",
	"5":  "Chromosome 5 plays roles in growth and development, including limb formation.",
	"6":  "Chromosome 6 holds genes important for the immune system, including HLA genes.",
	"7":  "Chromosome 7 is associated with cystic fibrosis and other genetic disorders.",
	"8":  "Chromosome 8 has genes important for brain development and cancer susceptibility.",
	"9":  "Chromosome 9 includes genes for blood type and skin development.",
	"10": "Chromosome 10 carries genes linked to hearing and metabolic disorders.",
	"11": "Chromosome 11 has genes involved in insulin production and sickle cell disease.",
	"12": "Chromosome 12 includes genes for hormone signaling and muscle development.",
	"13": "Chromosome 13 is related to eye development and some rare cancers.",
	"14": "Chromosome 14 has genes important for the immune response and early development.",
	"15": "Chromosome 15 is linked to conditions like Angelman and Prader-Willi syndromes.",
	"16": "Chromosome 16 contains genes involved in kidney function and metabolism.",
	"17": "Chromosome 17 includes BRCA1, a gene related to breast and ovarian cancer risk.",
	"18": "Chromosome 18 is connected to developmental disorders and cell organization.",
	"19": "Chromosome 19 is gene-rich and plays a role in lipid metabolism.",
	"20": "Chromosome 20 includes genes associated with diabetes and immune regulation.",
	"21": "Chromosome 21 is best known for its link to Down syndrome.",
	"22": "Chromosome 22 contains genes important for hearing and neural connectivity.",
	"X":  "The X chromosome carries many genes vital for development and is involved in sex-linked disorders.",
	"Y":  "The Y chromosome determines male sex characteristics and contains few active genes.",
	"MT": "Mitochondrial DNA (MT) is inherited from the mother and powers cell energy production.",
}

const unknownChromosome = "Chromosome information not clearly defined."

// GeneTypeInfo explains an Ensembl biotype in plain words.
func GeneTypeInfo(biotype string) string {
	key := strings.ToLower(strings.TrimSpace(biotype))
	if info, ok := geneTypeInfo[key]; ok {
		return info
	}
	if strings.HasSuffix(key, "pseudogene") {
		return geneTypeInfo["pseudogene"]
	}
	return unknownGeneType
}

// ChromosomeInfo explains a chromosome. Only human chromosomes are described.
func ChromosomeInfo(organism, chromosome string) string {
	if organism != "homo_sapiens" {
		return unknownChromosome
	}
	if info, ok := humanChromosomeInfo[strings.ToUpper(chromosome)]; ok {
		return info
	}
	return unknownChromosome
}

// FriendlyName is "SYMBOL: description" with the description cut at its first comma.
func FriendlyName(symbol, description string) string {
	if description == "" {
		return symbol
	}
	if i := strings.Index(description, ","); i >= 0 {
		description = description[:i]
	}
	return fmt.Sprintf("%s: %s", symbol, description)
}

// LearnMoreLink returns the Ensembl gene summary page.
func LearnMoreLink(organism, geneID string) string {
	species := organism
	if species != "" {
		species = strings.ToUpper(species[:1]) + species[1:]
	}
	return fmt.Sprintf("https://www.ensembl.org/%s/Gene/Summary?g=%s", species, geneID)
}
