package service

import "fmt"

const cataloguePromptTemplate = `Create a MARC21 catalogue record for a library item. The item information is provided below.
Adhere to the following rules for formatting:
* **TAG 020 (ISBN):** Include the ISBN.
* **TAG 082 (Dewey):** Include the Dewey Decimal number.
* **TAG 100/110 (Author):** Add the author(s).
* **TAG 245 (Main title):** Use descriptive wording. If it's a Library of Things item, include the collection name in brackets.
* **TAG 250 (Edition):** Specify the edition.
* **TAG 264 (Publication, etc.):** Provide the place, manufacturer/distributor, and year.
* **TAG 300 (Physical description):** Describe the number of pages/pieces, other physical details, and dimensions.
* **TAG 336, 337, 338 (RDA):** Use these tags to describe the item's content, media, and carrier type. For most objects, use:
    * 336 #atactile three dimensional form#btcf#2rdacontent
    * 337 #aunmediated#bn#2rdamedia
    * 338 #aobject#br#2rdacarrier
* **TAG 500 (Notes):** Add general notes.
* **TAG 504 (Bibliography):** Indicate if the item includes a bibliography or index.
* **TAG 520 (Summary):** Provide a summary with keywords.
* **TAG 600/650/690 (Subject headings):** The first subject heading for a "Library of Things" item must be "Library of Things."
* **TAG 856 (Electronic location):** Provide a placeholder URL for the image: "https://georgesriver.spydus.com/itemphotos/toys/{BRN}.jpg".

If a piece of information is missing from the item details, mark the corresponding field as "Not Provided". Do not include any conversational text, just the formatted record.

Here is the information for the new library item:
%s`

const askPromptTemplate = `You are an expert Spydus cataloguer. Answer the following question based on your extensive knowledge of Spydus cataloguing, item maintenance, and MARC21 standards. Be professional and authoritative.
    Question: %s
    `

// CataloguePrompt wraps free-text item details in the MARC21 record instructions.
func CataloguePrompt(itemDetails string) string {
	return fmt.Sprintf(cataloguePromptTemplate, itemDetails)
}

// AskPrompt wraps a free-form question in the expert cataloguer instructions.
func AskPrompt(question string) string {
	return fmt.Sprintf(askPromptTemplate, question)
}
