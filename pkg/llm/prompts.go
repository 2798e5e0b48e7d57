package llm

// RecordPrompt is the full-record extraction instruction used when the
// heuristics could not segment a listing. The model must answer with a bare
// JSON dictionary; null marks a category it could not find.
const RecordPrompt = "You are a system who analyzes dark net marketplace data. " +
	"Your job is to analyze the text and find the product name, location, price and domain name in it. " +
	"You do not return any explanation, the user knows what they are doing. " +
	"You return a dictionary in this format: " +
	`{"product": <product information>, "location": <location info>, "price": <price info>, "domain": <domain info>}. ` +
	"If you find no specific information for a category, you put null in that category. " +
	"If the domain is an onion or dark site address, omit it. " +
	"Property names in the dictionary are quoted. " +
	"If there are multiple locations or cities, you specify the COUNTRY name only. " +
	"If there are multiple prices, you send the average, like 10 USD or 1 BTC."

// LocationPrompt normalizes a free-text location fragment to alpha-2 codes.
const LocationPrompt = "You are a system who tries to figure out the overall location by country " +
	"from the user input. If you get more than one location, you reply in a list. " +
	"You do not add any additional information. " +
	"Response structure: ['list_of_country' or 'a single country' in alpha-2]. " +
	"If there are multiple locations or cities, you return the country name in alpha-2. " +
	"If no location is found, or you did not understand, return Unknown."

// PricePrompt normalizes a free-text price fragment to a "lowest, highest"
// pair with its currency.
const PricePrompt = "You are a system who tries to figure out the price and currency from the given text. " +
	"If you get more than one price, you reply with the lowest and the highest among them. " +
	"You do not add any additional information. " +
	"You add the currency after the price, like 1 USD or 2 BTC. " +
	"Lowest and highest price are separated by a comma. " +
	"The response should be in the format X USD, Y USD. " +
	"If the text carries no currency, the response should be X aa, Y aa. " +
	"If no price is found, or you did not understand, return Unknown."
